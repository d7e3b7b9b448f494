package catalog

import (
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CategorySummary is the public shape of a category.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductSummary is the public shape of a product.
type ProductSummary struct {
	ID          uuid.UUID        `json:"id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	PriceCents  int              `json:"price_cents"`
	IsActive    bool             `json:"is_active"`
	Category    *CategorySummary `json:"category,omitempty"`
	Images      []string         `json:"images"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ListRequest filters the public product listing.
type ListRequest struct {
	CategorySlug string
	Limit        int
	Offset       int
}

// ListResponse wraps a page of products with the unfiltered total.
type ListResponse struct {
	Products []ProductSummary `json:"products"`
	Total    int64            `json:"total"`
}

// CreateProductRequest is the admin payload for a new product.
type CreateProductRequest struct {
	Slug         string   `json:"slug" validate:"required,max=120"`
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	PriceCents   int      `json:"price_cents" validate:"gte=0"`
	CategorySlug string   `json:"category_slug" validate:"omitempty,max=120"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
}

// UpdateProductRequest edits mutable product fields. The slug never changes.
type UpdateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents   *int    `json:"price_cents" validate:"omitempty,gte=0"`
	CategorySlug *string `json:"category_slug" validate:"omitempty,max=120"`
}

// SetActiveRequest toggles product visibility.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// FromCategory maps a category row into its public shape.
func FromCategory(c *models.Category) CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// FromProduct maps a product row, with any preloaded associations, into its
// public shape.
func FromProduct(p *models.Product) ProductSummary {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}

	summary := ProductSummary{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		IsActive:    p.IsActive,
		Images:      images,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		cat := FromCategory(p.Category)
		summary.Category = &cat
	}
	return summary
}
