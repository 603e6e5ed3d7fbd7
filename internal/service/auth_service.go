package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/config"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/repository"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// TokenPair carries the access token and its server-side refresh token.
type TokenPair struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

// AuthService coordinates registration, login and token refresh flows.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	refreshTTL time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		refreshTTL: cfg.Auth.RefreshTokenTTL(),
	}
}

// Register creates a new account with the requested system role.
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, TokenPair{}, apperrors.NewValidationError("email and password required", nil)
	}
	if len(password) < 8 {
		return nil, TokenPair{}, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if !role.Valid() {
		return nil, TokenPair{}, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	user := &domain.User{Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login authenticates an account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, TokenPair{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, TokenPair{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, TokenPair{}, apperrors.NewUnauthorized("invalid credentials")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The old token
// is revoked so each refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error) {
	if refreshToken == "" {
		return nil, TokenPair{}, apperrors.NewValidationError("refresh_token required", nil)
	}

	userID, err := s.refresh.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, TokenPair{}, apperrors.NewUnauthorized("refresh token expired or revoked")
		}
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, TokenPair{}, apperrors.NewUnauthorized("user no longer exists")
		}
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return nil, TokenPair{}, apperrors.MapError(err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Logout revokes the refresh token. Access tokens simply expire.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (TokenPair, error) {
	accessToken, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, apperrors.MapError(err)
	}

	refreshToken := uuid.NewString()
	if err := s.refresh.Store(ctx, refreshToken, user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, apperrors.MapError(err)
	}

	return TokenPair{
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
		RefreshToken:    refreshToken,
	}, nil
}
