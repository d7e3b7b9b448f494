package users

import (
	"time"

	"github.com/devshop-kr/devshop-backend/internal/identity"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserSummary is the admin-facing projection of an account.
type UserSummary struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        enums.UserRole `json:"role"`
	Blocked     bool           `json:"blocked"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromModel maps a user row to its summary, resolving the effective role.
func FromModel(user *models.User) UserSummary {
	acct := identity.Account{Role: user.Role, IsAdmin: user.IsAdmin}
	return UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        acct.EffectiveRole(),
		Blocked:     !user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ListRequest carries admin listing parameters.
type ListRequest struct {
	Limit  int
	Offset int
}

// ListResponse wraps one page of accounts with the overall total.
type ListResponse struct {
	Users []UserSummary `json:"users"`
	Total int64         `json:"total"`
}

// SetBlockedRequest toggles the account's blocked state.
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// SetRoleRequest changes the account's role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
