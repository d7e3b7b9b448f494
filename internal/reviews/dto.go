package reviews

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest is the authenticated payload for posting a review.
type CreateRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required"`
	Body      string    `json:"body" validate:"max=5000"`
}

// SetActiveRequest toggles review visibility.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ReviewSummary is a review joined with its author's display name.
type ReviewSummary struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Body       string    `json:"body"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdminReviewSummary adds product context for the moderation listing.
type AdminReviewSummary struct {
	ReviewSummary
	ProductSlug string `json:"product_slug"`
	ProductName string `json:"product_name"`
}

// ListResponse wraps a page of reviews.
type ListResponse struct {
	Reviews []ReviewSummary `json:"reviews"`
	Total   int64           `json:"total"`
}

// AdminListResponse wraps a page of reviews with product context.
type AdminListResponse struct {
	Reviews []AdminReviewSummary `json:"reviews"`
	Total   int64                `json:"total"`
}
