package identity

import (
	"context"

	"github.com/devshop-kr/devshop-backend/pkg/db"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/google/uuid"
)

type gormRepository struct {
	client *db.Client
}

// NewRepository builds the GORM-backed account reader.
func NewRepository(client *db.Client) Repository {
	return &gormRepository{client: client}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.client.DB().WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
