package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the cart surface used by the controller.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*CartResponse, error)
	List(ctx context.Context, userID uuid.UUID) (*CartResponse, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartResponse, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error)
}

type cartRepository interface {
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (bool, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo cartRepository
}

// ServiceParams bundles the dependencies required to build the cart service.
type ServiceParams struct {
	Repo cartRepository
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.repo.FindProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unavailable product").
			WithDetails(map[string]string{"product_id": req.ProductID.String()})
	}

	if err := s.repo.Upsert(ctx, userID, req.ProductID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	return s.List(ctx, userID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}

	resp := &CartResponse{Items: make([]ItemSummary, 0, len(rows))}
	for i := range rows {
		item := summarize(&rows[i])
		resp.TotalCents += item.LineTotalCents
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartResponse, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	matched, err := s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.List(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	matched, err := s.repo.Remove(ctx, userID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.List(ctx, userID)
}

func summarize(item *models.CartItem) ItemSummary {
	summary := ItemSummary{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}
	if item.Product != nil {
		summary.ProductSlug = item.Product.Slug
		summary.ProductName = item.Product.Name
		summary.UnitPriceCents = item.Product.PriceCents
		summary.LineTotalCents = item.Product.PriceCents * item.Quantity
	}
	return summary
}
