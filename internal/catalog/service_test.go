package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (Service, *Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductImage{}))

	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func createProduct(t *testing.T, svc Service, slug string, priceCents int, categorySlug string) *ProductSummary {
	t.Helper()
	created, err := svc.Create(context.Background(), CreateProductRequest{
		Slug:         slug,
		Name:         "Product " + slug,
		PriceCents:   priceCents,
		CategorySlug: categorySlug,
	})
	require.NoError(t, err)
	return created
}

func TestDeactivatedProductHiddenFromListingButFetchable(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	visible := createProduct(t, svc, "visible-widget", 1500, "")
	hidden := createProduct(t, svc, "hidden-widget", 2500, "")

	_, err := svc.SetActive(ctx, hidden.ID, false)
	require.NoError(t, err)

	page, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, visible.ID, page.Products[0].ID)
	assert.EqualValues(t, 1, page.Total)

	fetched, err := svc.GetBySlug(ctx, "hidden-widget")
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)

	byID, err := svc.GetByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "hidden-widget", byID.Slug)
}

func TestAdminListingIncludesInactive(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	createProduct(t, svc, "alpha", 100, "")
	beta := createProduct(t, svc, "beta", 200, "")
	_, err := svc.SetActive(ctx, beta.ID, false)
	require.NoError(t, err)

	page, err := svc.ListAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.EqualValues(t, 2, page.Total)
}

func TestListFiltersByCategory(t *testing.T) {
	svc, repo := newCatalogService(t)
	ctx := context.Background()

	_, err := repo.CreateCategory(ctx, &models.Category{Name: "Keyboards", Slug: "keyboards"})
	require.NoError(t, err)
	_, err = repo.CreateCategory(ctx, &models.Category{Name: "Mice", Slug: "mice"})
	require.NoError(t, err)

	createProduct(t, svc, "clacky-60", 8900, "keyboards")
	createProduct(t, svc, "silent-mouse", 4900, "mice")

	page, err := svc.List(ctx, ListRequest{CategorySlug: "keyboards"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "clacky-60", page.Products[0].Slug)
	require.NotNil(t, page.Products[0].Category)
	assert.Equal(t, "Keyboards", page.Products[0].Category.Name)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newCatalogService(t)

	createProduct(t, svc, "one-of-a-kind", 1000, "")

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Slug:       "One-Of-A-Kind",
		Name:       "Copycat",
		PriceCents: 1000,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Slug:         "lost",
		Name:         "Lost",
		PriceCents:   100,
		CategorySlug: "does-not-exist",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreatePreservesImageOrder(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{
		Slug:       "gallery",
		Name:       "Gallery",
		PriceCents: 500,
		Images: []string{
			"https://cdn.devshop.test/gallery/front.jpg",
			"https://cdn.devshop.test/gallery/back.jpg",
		},
	})
	require.NoError(t, err)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.devshop.test/gallery/front.jpg",
		"https://cdn.devshop.test/gallery/back.jpg",
	}, fetched.Images)
}

func TestUpdateEditsFieldsButNeverSlug(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created := createProduct(t, svc, "fixed-slug", 1000, "")

	newName := "Renamed"
	newPrice := 2000
	updated, err := svc.Update(ctx, created.ID, UpdateProductRequest{
		Name:       &newName,
		PriceCents: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2000, updated.PriceCents)
	assert.Equal(t, "fixed-slug", updated.Slug)
}

func TestUpdateRejectsNegativePrice(t *testing.T) {
	svc, _ := newCatalogService(t)

	created := createProduct(t, svc, "priced", 1000, "")

	bad := -1
	_, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{PriceCents: &bad})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetActiveUnknownProductNotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.SetActive(context.Background(), uuid.New(), false)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetActiveIsIdempotent(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created := createProduct(t, svc, "toggle", 100, "")

	first, err := svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, first.IsActive)

	second, err := svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, second.IsActive)
}

func TestListCategoriesOrderedByName(t *testing.T) {
	svc, repo := newCatalogService(t)
	ctx := context.Background()

	_, err := repo.CreateCategory(ctx, &models.Category{Name: "Zeta", Slug: "zeta"})
	require.NoError(t, err)
	_, err = repo.CreateCategory(ctx, &models.Category{Name: "Alpha", Slug: "alpha"})
	require.NoError(t, err)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Alpha", categories[0].Name)
}
