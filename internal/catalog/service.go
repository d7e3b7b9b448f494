package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devshop-kr/devshop-backend/pkg/db"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/devshop-kr/devshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the catalog surface used by the public and admin controllers.
type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	ListAll(ctx context.Context, limit, offset int) (*ListResponse, error)
	GetBySlug(ctx context.Context, slug string) (*ProductSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductSummary, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductSummary, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductSummary, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductSummary, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error)
}

type catalogRepository interface {
	ListPublic(ctx context.Context, categorySlug string, limit, offset int) ([]models.Product, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type service struct {
	repo catalogRepository
}

// ServiceParams bundles the dependencies required to build the catalog service.
type ServiceParams struct {
	Repo catalogRepository
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	limit := pagination.NormalizeLimit(req.Limit)
	offset := pagination.NormalizeOffset(req.Offset)

	rows, total, err := s.repo.ListPublic(ctx, strings.TrimSpace(req.CategorySlug), limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return buildListResponse(rows, total), nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return buildListResponse(rows, total), nil
}

// GetBySlug returns the product whether or not it is active. Deactivated
// products stay reachable for direct lookups so owners of existing carts and
// admins can still inspect them.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductSummary, error) {
	product, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, mapProductError(err)
	}
	summary := FromProduct(product)
	return &summary, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductSummary, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}
	summary := FromProduct(product)
	return &summary, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductSummary, error) {
	slug := normalizeSlug(req.Slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if req.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
	}

	product := &models.Product{
		Slug:        slug,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		IsActive:    true,
	}

	if categorySlug := strings.TrimSpace(req.CategorySlug); categorySlug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
					WithDetails(map[string]string{"category_slug": categorySlug})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
		product.CategoryID = &category.ID
		product.Category = category
	}

	for i, url := range req.Images {
		product.Images = append(product.Images, models.ProductImage{URL: url, Position: i})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").
				WithDetails(map[string]string{"slug": slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	summary := FromProduct(created)
	return &summary, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductSummary, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapProductError(err)
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
		}
		fields["price_cents"] = *req.PriceCents
	}
	if req.CategorySlug != nil {
		if categorySlug := strings.TrimSpace(*req.CategorySlug); categorySlug == "" {
			fields["category_id"] = nil
		} else {
			category, err := s.repo.FindCategoryBySlug(ctx, categorySlug)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
						WithDetails(map[string]string{"category_slug": categorySlug})
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
			}
			fields["category_id"] = category.ID
		}
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
	}
	return s.GetByID(ctx, id)
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductSummary, error) {
	matched, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set product status")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.GetByID(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	summaries := make([]CategorySummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, FromCategory(&rows[i]))
	}
	return summaries, nil
}

func buildListResponse(rows []models.Product, total int64) *ListResponse {
	summaries := make([]ProductSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, FromProduct(&rows[i]))
	}
	return &ListResponse{Products: summaries, Total: total}
}

func mapProductError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
