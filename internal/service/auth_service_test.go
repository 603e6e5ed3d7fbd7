package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/residency-service/internal/config"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/repository/repositorytest"
)

func newAuthService() (*AuthService, *repositorytest.UserRepo, *repositorytest.RefreshTokenRepo) {
	users := repositorytest.NewUserRepo()
	tokens := repositorytest.NewRefreshTokenRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			RefreshTokenTTLHours:  1,
			BcryptCost:            4,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, RefreshTokenRepo: tokens})
	return svc, users, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "  Alice@Example.COM ", "s3cret-pass", domain.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleResident, user.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	logged, loginPair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, loginPair.AccessToken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "s3cret-pass", domain.RoleResident)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, _, err = svc.Register(ctx, "bob@example.com", "short", domain.RoleResident)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, _, err = svc.Register(ctx, "bob@example.com", "s3cret-pass", domain.Role("wizard"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", domain.RoleResident)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "ALICE@example.com", "another-pass", domain.RoleResident)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", domain.RoleResident)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-pass")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", domain.RoleResident)
	require.NoError(t, err)

	refreshed, newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// Refresh tokens are single-use; the old one no longer works.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, _, err = svc.Refresh(ctx, newPair.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", domain.RoleResident)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	// Logging out with no token is a no-op.
	require.NoError(t, svc.Logout(ctx, ""))
}
