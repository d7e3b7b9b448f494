package orders

import (
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// SetStatusRequest moves an order to a new fulfillment status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LineSummary is one snapshotted order line.
type LineSummary struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

// OrderSummary is an order with its line snapshots.
type OrderSummary struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Status     enums.OrderStatus `json:"status"`
	TotalCents int               `json:"total_cents"`
	Lines      []LineSummary     `json:"lines"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ListResponse wraps a page of orders.
type ListResponse struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
}

// FromModel maps an order row, with preloaded lines, into its public shape.
func FromModel(o *models.Order) OrderSummary {
	lines := make([]LineSummary, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, LineSummary{
			ID:             line.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return OrderSummary{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		Lines:      lines,
		CreatedAt:  o.CreatedAt,
	}
}
