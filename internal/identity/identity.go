// Package identity is the single place effective permissions are derived.
// The users table carries both a role string and a legacy is_admin flag;
// callers never read those columns directly.
package identity

import (
	"context"

	"github.com/devshop-kr/devshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// Account is the per-request snapshot of who is calling.
type Account struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        enums.UserRole
	IsAdmin     bool
	Blocked     bool
}

// EffectiveRole collapses the role string and the is_admin flag into one
// answer. Either signal marking the account as admin wins; any other value,
// including unknown role strings, resolves to customer.
func (a Account) EffectiveRole() enums.UserRole {
	if a.IsAdmin || a.Role == enums.UserRoleAdmin {
		return enums.UserRoleAdmin
	}
	return enums.UserRoleCustomer
}

// AccountResolver loads the caller's account fresh from storage.
type AccountResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Account, error)
}
