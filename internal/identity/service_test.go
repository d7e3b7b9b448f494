package identity

import (
	"context"
	"testing"

	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepo struct {
	users map[uuid.UUID]*models.User
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newTestService(t *testing.T, users ...*models.User) *Service {
	t.Helper()
	repo := &stubRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestEffectiveRoleCollapsesLegacySignals(t *testing.T) {
	tests := []struct {
		name    string
		role    enums.UserRole
		isAdmin bool
		want    enums.UserRole
	}{
		{name: "plain customer", role: enums.UserRoleCustomer, want: enums.UserRoleCustomer},
		{name: "role string admin", role: enums.UserRoleAdmin, want: enums.UserRoleAdmin},
		{name: "legacy flag only", role: enums.UserRoleCustomer, isAdmin: true, want: enums.UserRoleAdmin},
		{name: "both signals", role: enums.UserRoleAdmin, isAdmin: true, want: enums.UserRoleAdmin},
		{name: "unknown role string", role: enums.UserRole("moderator"), want: enums.UserRoleCustomer},
		{name: "unknown role with flag", role: enums.UserRole("moderator"), isAdmin: true, want: enums.UserRoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := Account{Role: tt.role, IsAdmin: tt.isAdmin}
			if got := acct.EffectiveRole(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolveReturnsFreshAccountState(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t, &models.User{
		ID:          userID,
		Email:       "jane@example.com",
		DisplayName: "Jane",
		Role:        enums.UserRoleCustomer,
		IsAdmin:     true,
		IsActive:    false,
	})

	acct, err := svc.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !acct.Blocked {
		t.Fatal("expected inactive user to resolve as blocked")
	}
	if acct.EffectiveRole() != enums.UserRoleAdmin {
		t.Fatal("legacy admin flag should still grant admin")
	}
	if acct.DisplayName != "Jane" {
		t.Fatalf("unexpected display name %q", acct.DisplayName)
	}
}

func TestResolveMissingAccountIsUnauthorized(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Resolve(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveNilIDIsUnauthorized(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Resolve(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
