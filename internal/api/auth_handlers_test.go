package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	authHeader, authResp := ts.registerUser(t, "alice@example.com")
	assert.NotEmpty(t, authResp.AccessToken)
	assert.NotEmpty(t, authResp.RefreshToken)
	assert.Equal(t, "Bearer", authResp.TokenType)
	assert.Equal(t, "alice@example.com", authResp.User.Email)

	resp := ts.api.Get("/api/v1/users/me", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	user := decodeData[UserResponse](t, resp.Body.Bytes())
	assert.Equal(t, authResp.User.ID, user.ID)
	assert.Equal(t, "Test User", user.DisplayName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "alice@example.com",
		"password":     "AnotherPassword1",
		"display_name": "Imposter",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "CONFLICT", envelope.Code)
}

func TestLoginFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "bob@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "bob@example.com",
		"password": "TestPassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	authResp := decodeData[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, authResp.AccessToken)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "bob@example.com",
		"password": "WrongPassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := setupTestServer(t)
	_, authResp := ts.registerUser(t, "carol@example.com")

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": authResp.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	refreshed := decodeData[AuthResponse](t, resp.Body.Bytes())
	assert.Equal(t, authResp.SessionID, refreshed.SessionID)
	assert.NotEqual(t, authResp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": authResp.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": refreshed.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": refreshed.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthViaCookie(t *testing.T) {
	ts := setupTestServer(t)
	_, authResp := ts.registerUser(t, "dave@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Cookie: access_token="+authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	user := decodeData[UserResponse](t, resp.Body.Bytes())
	assert.Equal(t, authResp.User.ID, user.ID)
}
