package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/auth"
	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
	"github.com/taskdeckapp/taskdeck-server/internal/id"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// SessionService manages refresh-token sessions. Each login creates a
// session; refreshing rotates the token so a stolen refresh token stops
// working as soon as the legitimate client uses it.
type SessionService struct {
	store  *sqlite.Store
	tokens *auth.TokenService
	logger *logger.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(st *sqlite.Store, tokens *auth.TokenService, log *logger.Logger) *SessionService {
	return &SessionService{store: st, tokens: tokens, logger: log}
}

// SessionMeta carries client metadata recorded alongside a session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// SessionResponse is the token pair returned on login, register, and refresh.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	SessionID    string `json:"session_id"`
}

// Create issues a fresh token pair for the user and persists the session.
func (s *SessionService) Create(ctx context.Context, user *domain.User, meta SessionMeta) (*SessionResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:               id.MustGenerate("sess"),
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		LastUsedAt:       now,
		CreatedAt:        now,
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Debug("session created", "session_id", sess.ID, "user_id", user.ID)

	return s.response(accessToken, refreshToken, sess.ID), nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is invalidated in the same store write that records the new
// one.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	sess, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := time.Now()
	if sess.IsExpired(now) {
		if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		return nil, domainerrors.TokenExpired("session expired, please log in again")
	}

	user, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiry := now.Add(s.tokens.RefreshTokenDuration())
	if err := s.store.RotateSession(ctx, sess.ID, auth.HashRefreshToken(newRefreshToken), newExpiry, now); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Session was revoked between lookup and rotation.
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	s.logger.Debug("session refreshed", "session_id", sess.ID, "user_id", user.ID)

	return s.response(accessToken, newRefreshToken, sess.ID), nil
}

// Delete revokes a session. Deleting an already-revoked session is not an
// error, so logout is idempotent.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes all sessions past their expiry and returns how many
// were deleted.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", "count", n)
	}
	return n, nil
}

// RunCleanup purges expired sessions on the given interval until the context
// is cancelled. Intended to run in its own goroutine.
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

func (s *SessionService) response(accessToken, refreshToken, sessionID string) *SessionResponse {
	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}
}
