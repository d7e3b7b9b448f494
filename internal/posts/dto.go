package posts

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest is the authenticated payload for a new board post.
type CreateRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

// SetActiveRequest toggles post visibility.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// PostSummary is a post joined with its author's display name.
type PostSummary struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListResponse wraps a page of posts.
type ListResponse struct {
	Posts []PostSummary `json:"posts"`
	Total int64         `json:"total"`
}
