package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskdeckapp/taskdeck-server/internal/auth"
	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/id"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestTokens(t *testing.T, refreshDuration time.Duration) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, refreshDuration)
	require.NoError(t, err)
	return tokens
}

// seedUser inserts a user directly through the store so entity tests don't
// depend on the auth service.
func seedUser(t *testing.T, st *sqlite.Store, userID string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		ID:           userID,
		Email:        strings.ToLower(userID) + "@example.com",
		PasswordHash: "x",
		DisplayName:  userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

// seedCollection inserts a collection directly through the store.
func seedCollection(t *testing.T, st *sqlite.Store, userID, title string) *domain.Collection {
	t.Helper()
	now := time.Now()
	c := &domain.Collection{
		ID:        id.MustGenerate("coll"),
		UserID:    userID,
		Title:     title,
		Type:      domain.CollectionTypeGeneral,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateCollection(context.Background(), c))
	return c
}

// seedTag inserts a tag directly through the store.
func seedTag(t *testing.T, st *sqlite.Store, userID, tagID, title string) *domain.Tag {
	t.Helper()
	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateTag(context.Background(), tag))
	return tag
}
