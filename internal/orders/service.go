package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/devshop-kr/devshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the order surface for customer and admin controllers.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*OrderSummary, error)
	Get(ctx context.Context, requesterID uuid.UUID, requesterIsAdmin bool, orderID uuid.UUID) (*OrderSummary, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (*ListResponse, error)
	ListAll(ctx context.Context, limit, offset int) (*ListResponse, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderSummary, error)
}

type orderRepository interface {
	CreateFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error)
}

type service struct {
	repo orderRepository
}

// ServiceParams bundles the dependencies required to build the orders service.
type ServiceParams struct {
	Repo orderRepository
}

// NewService constructs the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID) (*OrderSummary, error) {
	order, err := s.repo.CreateFromCart(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}
	summary := FromModel(order)
	return &summary, nil
}

// Get returns an order to its owner or to an admin. Other callers get the
// same 404 as a nonexistent order.
func (s *service) Get(ctx context.Context, requesterID uuid.UUID, requesterIsAdmin bool, orderID uuid.UUID) (*OrderSummary, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !requesterIsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	summary := FromModel(order)
	return &summary, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, total), nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) (*ListResponse, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, total), nil
}

func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderSummary, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": status, "valid": enums.OrderStatuses()})
	}

	matched, err := s.repo.SetStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set order status")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	summary := FromModel(order)
	return &summary, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func buildListResponse(rows []models.Order, total int64) *ListResponse {
	summaries := make([]OrderSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, FromModel(&rows[i]))
	}
	return &ListResponse{Orders: summaries, Total: total}
}
