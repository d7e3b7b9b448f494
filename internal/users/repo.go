package users

import (
	"context"
	"time"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// List returns one page of users ordered by creation time plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SetBlocked flips the account's is_active flag.
func (r *Repository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": !blocked}).Error
}

// PromoteToAdmin writes both role signals so legacy readers stay consistent.
func (r *Repository) PromoteToAdmin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": enums.UserRoleAdmin, "is_admin": true}).Error
}

// DemoteToCustomer clears both role signals, refusing when no other unblocked
// admin exists. The admin rows are locked before the guard is evaluated so two
// concurrent demotions serialize instead of both passing the check; sqlite
// allows one writer at a time and needs no explicit lock.
func (r *Repository) DemoteToCustomer(ctx context.Context, id uuid.UUID) (bool, error) {
	var applied bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins := tx.Model(&models.User{}).
			Where("(is_admin = ? OR role = ?) AND is_active = ?", true, enums.UserRoleAdmin, true)
		if tx.Dialector.Name() == "postgres" {
			admins = admins.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var adminIDs []uuid.UUID
		if err := admins.Order("id ASC").Pluck("id", &adminIDs).Error; err != nil {
			return err
		}

		otherAdmin := false
		for _, adminID := range adminIDs {
			if adminID != id {
				otherAdmin = true
				break
			}
		}
		if !otherAdmin {
			return nil
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]any{"role": enums.UserRoleCustomer, "is_admin": false, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected > 0
		return nil
	})
	return applied, err
}

// SetRoleDirect overwrites both role signals without the admin guard. Only
// safe for targets that do not currently hold admin.
func (r *Repository) SetRoleDirect(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "is_admin": role == enums.UserRoleAdmin}).Error
}

// Delete removes the account row permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// CountActiveAdmins reports how many unblocked admins remain.
func (r *Repository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("(is_admin = ? OR role = ?) AND is_active = ?", true, enums.UserRoleAdmin, true).
		Count(&count).Error
	return count, err
}
