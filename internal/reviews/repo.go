package reviews

import (
	"context"
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviewRow is the flattened join used by the listings.
type reviewRow struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	UserID      uuid.UUID
	AuthorName  string
	Rating      int
	Body        string
	IsActive    bool
	CreatedAt   time.Time
	ProductSlug string
	ProductName string
}

// Repository provides gorm-backed access to reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository on the shared gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select(`reviews.id, reviews.product_id, reviews.user_id,
			users.display_name AS author_name,
			reviews.rating, reviews.body, reviews.is_active, reviews.created_at,
			products.slug AS product_slug, products.name AS product_name`).
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN products ON products.id = reviews.product_id")
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID returns a review regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForProduct returns active reviews for one product, newest first.
func (r *Repository) ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]reviewRow, int64, error) {
	query := r.joined(ctx).
		Where("reviews.product_id = ?", productID).
		Where("reviews.is_active = ?", true)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewRow
	err := query.
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

// ListAll returns every review, active or not, newest first.
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]reviewRow, int64, error) {
	query := r.joined(ctx)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewRow
	err := query.
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

// SetActive flips the review visibility flag. The returned bool reports
// whether a row matched.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ProductExists reports whether the product id resolves to a row.
func (r *Repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error
	return count > 0, err
}
