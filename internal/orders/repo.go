package orders

import (
	"context"
	"errors"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when checkout finds no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// Repository provides gorm-backed access to orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository on the shared gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateFromCart consolidates the user's cart into a new order inside one
// transaction: snapshot current product names and prices into lines, write
// the order, and empty the cart. Nothing is written when the cart is empty.
func (r *Repository) CreateFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", userID).
			Order("created_at ASC, id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = &models.Order{
			UserID: userID,
			Status: enums.OrderStatusPreparing,
		}
		consumed := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			if item.Product == nil {
				return gorm.ErrRecordNotFound
			}
			lineTotal := item.Product.PriceCents * item.Quantity
			order.Lines = append(order.Lines, models.OrderLine{
				ProductID:      item.ProductID,
				ProductName:    item.Product.Name,
				UnitPriceCents: item.Product.PriceCents,
				Quantity:       item.Quantity,
				LineTotalCents: lineTotal,
			})
			order.TotalCents += lineTotal
			consumed = append(consumed, item.ID)
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		// Delete only the lines snapshotted above. A line added concurrently
		// between the read and this delete stays in the cart rather than
		// vanishing without ever reaching an order.
		return tx.Where("id IN ?", consumed).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID returns an order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Lines").
		Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// ListAll returns orders across every user, newest first.
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Lines")

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// SetStatus writes the order status. The returned bool reports whether a row
// matched.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
