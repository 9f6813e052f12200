package auth

import (
	"context"
	"errors"
	"time"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	"github.com/parishops/parish-api/pkg/auth"
	apperrors "github.com/parishops/parish-api/pkg/errors"
	"github.com/parishops/parish-api/pkg/logger"
	"github.com/parishops/parish-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// Service authenticates staff and manages session tokens. Tokens carry
// their own expiry; logout revokes the token server-side so it stops
// working before that expiry.
type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
	logger *logger.Logger
	now    func() time.Time
}

func NewService(users repository.UserRepository, tokens repository.TokenRepository, jwt auth.JWTService, hasher security.PasswordHasher, logger *logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// Login verifies credentials and issues an access/refresh token pair.
// Failed attempts are counted and the account locks after too many
// within the lockout window.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if user.Status == model.UserStatusLocked {
		return nil, apperrors.Unauthorized(errors.New("account locked"))
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Unauthorized(errors.New("account inactive"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailedAttempt(ctx, user)
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	now := s.now()
	user.LoginAttempts = 0
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login", "user", user.ID)
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid, unrevoked refresh token for a new pair.
// The old refresh token is revoked so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(errors.New("token revoked"))
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Unauthorized(errors.New("account inactive"))
	}

	if err := s.revokeUntilExpiry(ctx, refreshToken, claims); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.issueTokens(user)
}

// Logout revokes both tokens of a session.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwt.ValidateToken(accessToken); err == nil {
		if err := s.revokeUntilExpiry(ctx, accessToken, claims); err != nil {
			return apperrors.Internal(err)
		}
	}
	if refreshToken == "" {
		return nil
	}
	if claims, err := s.jwt.ValidateRefreshToken(refreshToken); err == nil {
		if err := s.revokeUntilExpiry(ctx, refreshToken, claims); err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}

// ValidateSession checks signature, expiry and the revocation list.
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, token)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(errors.New("token revoked"))
	}
	return claims, nil
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) revokeUntilExpiry(ctx context.Context, token string, claims *model.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.tokens.Revoke(ctx, token, ttl)
}

func (s *Service) recordFailedAttempt(ctx context.Context, user *model.User) {
	now := s.now()
	if now.Sub(user.LastLoginAttempt) > lockoutWindow {
		user.LoginAttempts = 0
	}
	user.LoginAttempts++
	user.LastLoginAttempt = now
	if user.LoginAttempts >= maxLoginAttempts {
		user.Status = model.UserStatusLocked
		s.logger.Warn("account locked after repeated failed logins", "user", user.ID)
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login attempt", "user", user.ID)
	}
}
