package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the single read the resolver needs.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service resolves accounts against live user rows so blocks and role
// changes take effect on the next request, not at token expiry.
type Service struct {
	repo Repository
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo Repository
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Resolve loads the account behind userID. A missing row maps to
// CodeUnauthorized so deleted accounts fail closed.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (Account, error) {
	if userID == uuid.Nil {
		return Account{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing account id")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return Account{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving account")
	}

	return Account{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsAdmin:     user.IsAdmin,
		Blocked:     !user.IsActive,
	}, nil
}
