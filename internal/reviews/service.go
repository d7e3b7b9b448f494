package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/devshop-kr/devshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ratingMin = 1
	ratingMax = 5
)

// Service defines the review surface for public and admin controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ReviewSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewSummary, error)
	ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) (*ListResponse, error)
	ListAll(ctx context.Context, limit, offset int) (*AdminListResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]reviewRow, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]reviewRow, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

type service struct {
	repo reviewRepository
}

// ServiceParams bundles the dependencies required to build the reviews service.
type ServiceParams struct {
	Repo reviewRepository
}

// NewService constructs the reviews service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ReviewSummary, error) {
	exists, err := s.repo.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    clampRating(req.Rating),
		Body:      strings.TrimSpace(req.Body),
		IsActive:  true,
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReviewSummary, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	return &ReviewSummary{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Body:      review.Body,
		IsActive:  review.IsActive,
		CreatedAt: review.CreatedAt,
	}, nil
}

func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListForProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}

	summaries := make([]ReviewSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, fromRow(row))
	}
	return &ListResponse{Reviews: summaries, Total: total}, nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) (*AdminListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}

	summaries := make([]AdminReviewSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, AdminReviewSummary{
			ReviewSummary: fromRow(row),
			ProductSlug:   row.ProductSlug,
			ProductName:   row.ProductName,
		})
	}
	return &AdminListResponse{Reviews: summaries, Total: total}, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	matched, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set review status")
	}
	if !matched {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return nil
}

func fromRow(row reviewRow) ReviewSummary {
	return ReviewSummary{
		ID:         row.ID,
		ProductID:  row.ProductID,
		UserID:     row.UserID,
		AuthorName: row.AuthorName,
		Rating:     row.Rating,
		Body:       row.Body,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
	}
}

// clampRating forces out-of-range ratings back into bounds instead of
// rejecting them.
func clampRating(rating int) int {
	if rating < ratingMin {
		return ratingMin
	}
	if rating > ratingMax {
		return ratingMax
	}
	return rating
}
