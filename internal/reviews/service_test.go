package reviews

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

func newReviewsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Review{}))

	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc, db
}

func seedReviewer(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@devshop.test", uuid.NewString()[:8]),
		PasswordHash: "x",
		DisplayName:  name,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func seedProduct(t *testing.T, db *gorm.DB, slug string) uuid.UUID {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       "Product " + slug,
		PriceCents: 1000,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product.ID
}

func TestCreateClampsRating(t *testing.T) {
	svc, db := newReviewsService(t)
	ctx := context.Background()

	userID := seedReviewer(t, db, "Clara")
	productID := seedProduct(t, db, "rated")

	high, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 7})
	require.NoError(t, err)
	assert.Equal(t, 5, high.Rating)

	low, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, low.Rating)

	mid, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, mid.Rating)
}

func TestCreateUnknownProductNotFound(t *testing.T) {
	svc, db := newReviewsService(t)
	userID := seedReviewer(t, db, "Nate")

	_, err := svc.Create(context.Background(), userID, CreateRequest{ProductID: uuid.New(), Rating: 4})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestMultipleReviewsPerUserAllowed(t *testing.T) {
	svc, db := newReviewsService(t)
	ctx := context.Background()

	userID := seedReviewer(t, db, "Repeat Rita")
	productID := seedProduct(t, db, "revisited")

	_, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 2, Body: "meh"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 5, Body: "grew on me"})
	require.NoError(t, err)

	page, err := svc.ListForProduct(ctx, productID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 2)
}

func TestModeratedReviewHiddenFromPublicListing(t *testing.T) {
	svc, db := newReviewsService(t)
	ctx := context.Background()

	userID := seedReviewer(t, db, "Moody Max")
	productID := seedProduct(t, db, "moderated")

	kept, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 5, Body: "fine"})
	require.NoError(t, err)
	removed, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 1, Body: "spam"})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, removed.ID, false))

	page, err := svc.ListForProduct(ctx, productID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, kept.ID, page.Reviews[0].ID)
	assert.Equal(t, "Moody Max", page.Reviews[0].AuthorName)

	// Direct fetch keeps working for audit.
	audited, err := svc.Get(ctx, removed.ID)
	require.NoError(t, err)
	assert.False(t, audited.IsActive)
}

func TestAdminListingIncludesProductContext(t *testing.T) {
	svc, db := newReviewsService(t)
	ctx := context.Background()

	userID := seedReviewer(t, db, "Ada")
	productID := seedProduct(t, db, "context-widget")

	created, err := svc.Create(ctx, userID, CreateRequest{ProductID: productID, Rating: 4})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, created.ID, false))

	page, err := svc.ListAll(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, "context-widget", page.Reviews[0].ProductSlug)
	assert.Equal(t, "Product context-widget", page.Reviews[0].ProductName)
	assert.False(t, page.Reviews[0].IsActive)
}

func TestSetActiveUnknownReviewNotFound(t *testing.T) {
	svc, _ := newReviewsService(t)

	err := svc.SetActive(context.Background(), uuid.New(), false)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
