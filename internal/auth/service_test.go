package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/devshop-kr/devshop-backend/internal/users"
	pkgAuth "github.com/devshop-kr/devshop-backend/pkg/auth"
	"github.com/devshop-kr/devshop-backend/pkg/config"
	"github.com/devshop-kr/devshop-backend/pkg/db/models"
	"github.com/devshop-kr/devshop-backend/pkg/enums"
	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubSessionManager struct {
	generated map[string]string
	revoked   []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{generated: map[string]string{}}
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.generated[oldAccessID] != provided {
		return "", "", fmt.Errorf("mismatched token")
	}
	delete(s.generated, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	s.generated[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "devshop-test", ExpirationMinutes: 60}
	pwCfg := config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	return jwtCfg, pwCfg
}

func newAuthService(t *testing.T) (Service, *users.Repository, *stubSessionManager) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	repo := users.NewRepository(db)
	sessions := newStubSessionManager()
	jwtCfg, pwCfg := testConfigs()

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
		PasswordConfig: pwCfg,
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func signup(t *testing.T, svc Service, email, name string) *AuthResponse {
	t.Helper()
	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:       email,
		Password:    "Valid&Pass123",
		DisplayName: name,
	})
	require.NoError(t, err)
	return resp
}

func TestSignupIssuesTokensAndDefaultsToCustomer(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp := signup(t, svc, "new@devshop.test", "Newbie")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Role)

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)

	signup(t, svc, "dup@devshop.test", "First")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "DUP@devshop.test",
		Password:    "Valid&Pass123",
		DisplayName: "Second",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestSignupDuplicateDisplayNameConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)

	signup(t, svc, "one@devshop.test", "Taken Name")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "two@devshop.test",
		Password:    "Valid&Pass123",
		DisplayName: "Taken Name",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Contains(t, typed.Error(), "display name")
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "weak@devshop.test",
		Password:    "short",
		DisplayName: "Weak",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	svc, _, _ := newAuthService(t)
	signup(t, svc, "user@devshop.test", "User")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@devshop.test",
		Password: "Wrong&Pass123",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@devshop.test",
		Password: "Valid&Pass123",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginBlockedAccountForbiddenWithName(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	resp := signup(t, svc, "blocked@devshop.test", "Banned Betty")
	require.NoError(t, repo.SetBlocked(context.Background(), resp.User.ID, true))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "blocked@devshop.test",
		Password: "Valid&Pass123",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Contains(t, typed.Message(), "Banned Betty")
}

func TestLoginRecordsLastLogin(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	created := signup(t, svc, "seen@devshop.test", "Seen")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "seen@devshop.test",
		Password: "Valid&Pass123",
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	resp := signup(t, svc, "rot@devshop.test", "Rotator")

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// Old session is gone; replaying the old pair must fail.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	require.Error(t, err)

	assert.Len(t, sessions.generated, 1)
}

func TestRefreshBlockedAccountForbidden(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	resp := signup(t, svc, "rb@devshop.test", "Blocked Bob")
	require.NoError(t, repo.SetBlocked(context.Background(), resp.User.ID, true))

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	resp := signup(t, svc, "out@devshop.test", "Outie")

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Contains(t, sessions.revoked, claims.ID)
}

func TestMeReturnsSummary(t *testing.T) {
	svc, _, _ := newAuthService(t)
	resp := signup(t, svc, "me@devshop.test", "Me Myself")

	summary, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Me Myself", summary.DisplayName)
}
