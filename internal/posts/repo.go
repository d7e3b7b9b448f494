package posts

import (
	"context"
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postRow struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	AuthorName string
	Title      string
	Body       string
	IsActive   bool
	CreatedAt  time.Time
}

// Repository provides gorm-backed access to board posts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a posts repository on the shared gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(`posts.id, posts.user_id, users.display_name AS author_name,
			posts.title, posts.body, posts.is_active, posts.created_at`).
		Joins("JOIN users ON users.id = posts.user_id")
}

// Create inserts a post row.
func (r *Repository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// ListActive returns visible posts, newest first.
func (r *Repository) ListActive(ctx context.Context, limit, offset int) ([]postRow, int64, error) {
	query := r.joined(ctx).Where("posts.is_active = ?", true)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []postRow
	err := query.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

// ListAll returns every post, active or not, newest first.
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]postRow, int64, error) {
	query := r.joined(ctx)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []postRow
	err := query.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

// SetActive flips the post visibility flag. The returned bool reports whether
// a row matched.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
