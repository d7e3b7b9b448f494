package cart

import (
	"time"

	"github.com/google/uuid"
)

// AddRequest puts a product into the cart or bumps its quantity. Quantity may
// be omitted and defaults to 1.
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateQuantityRequest replaces a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// ItemSummary is one cart line joined with current product data.
type ItemSummary struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductSlug    string    `json:"product_slug"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// CartResponse is the full cart with a running total.
type CartResponse struct {
	Items      []ItemSummary `json:"items"`
	TotalCents int           `json:"total_cents"`
}
