package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/devshop-kr/devshop-backend/internal/identity"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/devshop-kr/devshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the account administration surface.
type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserSummary, error)
	SetBlocked(ctx context.Context, actorID, targetID uuid.UUID, blocked bool) (*UserSummary, error)
	SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserSummary, error)
	Delete(ctx context.Context, actorID, targetID uuid.UUID) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	PromoteToAdmin(ctx context.Context, id uuid.UUID) error
	DemoteToCustomer(ctx context.Context, id uuid.UUID) (bool, error)
	SetRoleDirect(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo userRepository
}

// ServiceParams bundles the dependencies required to build the users service.
type ServiceParams struct {
	Repo userRepository
}

// NewService constructs the account administration service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	limit := pagination.NormalizeLimit(req.Limit)
	offset := pagination.NormalizeOffset(req.Offset)

	rows, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	summaries := make([]UserSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, FromModel(&rows[i]))
	}
	return &ListResponse{Users: summaries, Total: total}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserSummary, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := FromModel(user)
	return &summary, nil
}

func (s *service) SetBlocked(ctx context.Context, actorID, targetID uuid.UUID, blocked bool) (*UserSummary, error) {
	if actorID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change the blocked state of your own account")
	}

	if _, err := s.loadUser(ctx, targetID); err != nil {
		return nil, err
	}

	if err := s.repo.SetBlocked(ctx, targetID, blocked); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update blocked state")
	}
	return s.Get(ctx, targetID)
}

func (s *service) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserSummary, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": role})
	}

	target, err := s.loadUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	targetIsAdmin := identity.Account{Role: target.Role, IsAdmin: target.IsAdmin}.EffectiveRole() == enums.UserRoleAdmin

	switch {
	case role == enums.UserRoleAdmin:
		if err := s.repo.PromoteToAdmin(ctx, targetID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote user")
		}

	case targetIsAdmin:
		if actorID == targetID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot demote your own account")
		}
		applied, err := s.repo.DemoteToCustomer(ctx, targetID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "demote user")
		}
		if !applied {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot demote the last active admin")
		}

	default:
		if err := s.repo.SetRoleDirect(ctx, targetID, role); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set role")
		}
	}

	return s.Get(ctx, targetID)
}

func (s *service) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	target, err := s.loadUser(ctx, targetID)
	if err != nil {
		return err
	}

	// Removing an admin counts as a demotion for the invariant: the last
	// active admin cannot be deleted either.
	targetIsAdmin := identity.Account{Role: target.Role, IsAdmin: target.IsAdmin}.EffectiveRole() == enums.UserRoleAdmin
	if targetIsAdmin {
		applied, err := s.repo.DemoteToCustomer(ctx, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "demote before delete")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete the last active admin")
		}
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
