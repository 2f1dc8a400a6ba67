package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	st := newTestStore(t)
	tokens := newTestTokens(t, 30*24*time.Hour)
	log := testLogger()
	sessions := NewSessionService(st, tokens, log)
	return NewAuthService(st, tokens, sessions, log)
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, session, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse battery",
		DisplayName: "Alice",
	}, SessionMeta{UserAgent: "test"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, int64(900), session.ExpiresIn)
	assert.NotEmpty(t, session.SessionID)

	claims, err := svc.VerifyAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "alice@example.com", Password: "password123", DisplayName: "Alice"}
	_, _, err := svc.Register(ctx, req, SessionMeta{})
	require.NoError(t, err)

	// Same address with different casing still conflicts.
	req.Email = "ALICE@example.com"
	_, _, err = svc.Register(ctx, req, SessionMeta{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRegister_InvalidPayload(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "",
	}, SessionMeta{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterRequest{
		Email: "bob@example.com", Password: "password123", DisplayName: "Bob",
	}, SessionMeta{})
	require.NoError(t, err)

	user, session, err := svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, session.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterRequest{
		Email: "bob@example.com", Password: "password123", DisplayName: "Bob",
	}, SessionMeta{})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "wrong-password"}, SessionMeta{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	// Unknown email and wrong password must be indistinguishable.
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password123"}, SessionMeta{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.EqualError(t, err, "invalid email or password")
}

func TestRefreshTokens_RotatesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, RegisterRequest{
		Email: "carol@example.com", Password: "password123", DisplayName: "Carol",
	}, SessionMeta{})
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, refreshed.SessionID)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	// The new one keeps working.
	_, err = svc.RefreshTokens(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshTokens_Empty(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.RefreshTokens(context.Background(), "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, RegisterRequest{
		Email: "dave@example.com", Password: "password123", DisplayName: "Dave",
	}, SessionMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.SessionID))

	_, err = svc.RefreshTokens(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	// Logout is idempotent.
	require.NoError(t, svc.Logout(ctx, session.SessionID))
}

func TestVerifyAccessToken_Invalid(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestGetUser_NotFound(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.GetUser(context.Background(), "user-missing")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
