package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

func newTestSession(userID, id, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		UserAgent:        "test-agent",
		IPAddress:        "127.0.0.1",
		ExpiresAt:        expiresAt,
		LastUsedAt:       now,
		CreatedAt:        now,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	expires := time.Now().Add(30 * 24 * time.Hour)
	sess := newTestSession("user-1", "sess-1", "hash-abc", expires)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByTokenHash(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.ID != "sess-1" || got.UserID != "user-1" {
		t.Errorf("got session %s for user %s", got.ID, got.UserID)
	}
	if got.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("ExpiresAt: got %v, want %v", got.ExpiresAt, expires)
	}

	_, err = s.GetSessionByTokenHash(ctx, "hash-unknown")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRotateSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	expires := time.Now().Add(time.Hour)
	if err := s.CreateSession(ctx, newTestSession("user-1", "sess-1", "hash-old", expires)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	newExpires := time.Now().Add(48 * time.Hour)
	usedAt := time.Now()
	if err := s.RotateSession(ctx, "sess-1", "hash-new", newExpires, usedAt); err != nil {
		t.Fatalf("RotateSession: %v", err)
	}

	// The old hash no longer resolves; the new one does.
	_, err := s.GetSessionByTokenHash(ctx, "hash-old")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for rotated hash, got %v", err)
	}
	got, err := s.GetSessionByTokenHash(ctx, "hash-new")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.ExpiresAt.Unix() != newExpires.Unix() {
		t.Errorf("ExpiresAt: got %v, want %v", got.ExpiresAt, newExpires)
	}

	err = s.RotateSession(ctx, "sess-missing", "hash-x", newExpires, usedAt)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing session, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	if err := s.CreateSession(ctx, newTestSession("user-1", "sess-1", "hash-abc", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	_, err := s.GetSessionByTokenHash(ctx, "hash-abc")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession again: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	if err := s.CreateSession(ctx, newTestSession("user-1", "sess-old", "hash-old", now.Add(-time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, newTestSession("user-1", "sess-live", "hash-live", now.Add(time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}

	if _, err := s.GetSessionByTokenHash(ctx, "hash-live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
