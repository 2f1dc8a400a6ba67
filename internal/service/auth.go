package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/auth"
	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
	"github.com/taskdeckapp/taskdeck-server/internal/id"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	store    *sqlite.Store
	tokens   *auth.TokenService
	sessions *SessionService
	logger   *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st *sqlite.Store, tokens *auth.TokenService, sessions *SessionService, log *logger.Logger) *AuthService {
	return &AuthService{store: st, tokens: tokens, sessions: sessions, logger: log}
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// LoginRequest is the payload for authenticating with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account and logs it in, returning the user and
// a fresh token pair.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, meta SessionMeta) (*domain.User, *SessionResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		LastLoginAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, nil, domainerrors.Conflict("an account with this email already exists")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.Create(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return user, session, nil
}

// Login authenticates a user and returns it with a fresh token pair.
// Unknown emails and wrong passwords produce the same error so the endpoint
// does not leak which addresses have accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, meta SessionMeta) (*domain.User, *SessionResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	now := time.Now()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Best-effort; a failed timestamp update must not block login.
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = now
	}

	session, err := s.sessions.Create(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return user, session, nil
}

// RefreshTokens exchanges a refresh token for a new token pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	if refreshToken == "" {
		return nil, domainerrors.Unauthorized("refresh token required")
	}
	return s.sessions.Refresh(ctx, refreshToken)
}

// Logout revokes the given session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, domainerrors.TokenExpired("access token expired")
		}
		return nil, domainerrors.Unauthorized("invalid access token")
	}
	return claims, nil
}

// GetUser returns the user with the given ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
