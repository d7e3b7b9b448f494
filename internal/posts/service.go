package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/devshop-kr/devshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service defines the board surface for public and admin controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*PostSummary, error)
	List(ctx context.Context, limit, offset int) (*ListResponse, error)
	ListAll(ctx context.Context, limit, offset int) (*ListResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type postRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	ListActive(ctx context.Context, limit, offset int) ([]postRow, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]postRow, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
}

type service struct {
	repo postRepository
}

// ServiceParams bundles the dependencies required to build the posts service.
type ServiceParams struct {
	Repo postRepository
}

// NewService constructs the posts service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("posts repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*PostSummary, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	post := &models.Post{
		UserID:   userID,
		Title:    title,
		Body:     strings.TrimSpace(req.Body),
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create post")
	}

	return &PostSummary{
		ID:        created.ID,
		UserID:    created.UserID,
		Title:     created.Title,
		Body:      created.Body,
		IsActive:  created.IsActive,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (s *service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}
	return buildListResponse(rows, total), nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}
	return buildListResponse(rows, total), nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	matched, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set post status")
	}
	if !matched {
		return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return nil
}

func buildListResponse(rows []postRow, total int64) *ListResponse {
	summaries := make([]PostSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, PostSummary{
			ID:         row.ID,
			UserID:     row.UserID,
			AuthorName: row.AuthorName,
			Title:      row.Title,
			Body:       row.Body,
			IsActive:   row.IsActive,
			CreatedAt:  row.CreatedAt,
		})
	}
	return &ListResponse{Posts: summaries, Total: total}
}
