package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	tag := &domain.Tag{
		ID:        "tag-1",
		UserID:    "user-1",
		Title:     "urgent",
		Color:     "#ff0000",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagByIDAndUser(ctx, "tag-1", "user-1")
	if err != nil {
		t.Fatalf("GetTagByIDAndUser: %v", err)
	}
	if got.Title != "urgent" {
		t.Errorf("Title: got %q, want %q", got.Title, "urgent")
	}
	if got.Color != "#ff0000" {
		t.Errorf("Color: got %q, want %q", got.Color, "#ff0000")
	}
	if got.CreatedAt.Unix() != now.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}
}

func TestGetTag_WrongUserIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestTag(t, s, "user-1", "tag-1", "urgent")

	_, err := s.GetTagByIDAndUser(ctx, "tag-1", "user-2")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTag_DuplicateTitlePerUser(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestTag(t, s, "user-1", "tag-1", "home")

	// Same title for the same user conflicts, case-insensitively.
	now := time.Now()
	dup := &domain.Tag{ID: "tag-2", UserID: "user-1", Title: "Home", CreatedAt: now, UpdatedAt: now}
	err := s.CreateTag(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Same title for a different user is fine.
	other := &domain.Tag{ID: "tag-3", UserID: "user-2", Title: "home", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateTag(context.Background(), other); err != nil {
		t.Fatalf("CreateTag for other user: %v", err)
	}
}

func TestGetTagsByIDsAndUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestTag(t, s, "user-1", "tag-1", "urgent")
	insertTestTag(t, s, "user-1", "tag-2", "home")
	insertTestTag(t, s, "user-2", "tag-3", "work")

	// Only the caller's tags come back; the other user's tag is absent.
	tags, err := s.GetTagsByIDsAndUser(ctx, "user-1", []string{"tag-1", "tag-2", "tag-3", "tag-nope"})
	if err != nil {
		t.Fatalf("GetTagsByIDsAndUser: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	found := map[string]bool{}
	for _, tag := range tags {
		found[tag.ID] = true
	}
	if !found["tag-1"] || !found["tag-2"] {
		t.Errorf("missing expected tags, got %v", found)
	}
}

func TestGetTagsByIDsAndUser_EmptyInput(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")

	tags, err := s.GetTagsByIDsAndUser(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("GetTagsByIDsAndUser: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("got %d tags, want 0", len(tags))
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestTag(t, s, "user-1", "tag-1", "urgent")
	insertTestTag(t, s, "user-1", "tag-2", "home")

	tag, err := s.GetTagByIDAndUser(ctx, "tag-1", "user-1")
	if err != nil {
		t.Fatalf("GetTagByIDAndUser: %v", err)
	}

	tag.Title = "critical"
	tag.Touch()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTagByIDAndUser(ctx, "tag-1", "user-1")
	if err != nil {
		t.Fatalf("GetTagByIDAndUser after update: %v", err)
	}
	if got.Title != "critical" {
		t.Errorf("Title: got %q, want %q", got.Title, "critical")
	}

	// Renaming onto another of the user's titles conflicts.
	tag.Title = "home"
	err = s.UpdateTag(ctx, tag)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteTag_KeepsTaggedEntities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestTag(t, s, "user-1", "tag-1", "urgent")

	now := time.Now()
	task := &domain.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Title:     "Write report",
		Status:    domain.TaskStatusTodo,
		Priority:  domain.TaskPriorityMedium,
		TagIDs:    []string{"tag-1"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := s.DeleteTag(ctx, "tag-1", "user-1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	// The task survives with the association cascaded away.
	got, err := s.GetTaskByIDAndUser(ctx, "task-1", "user-1")
	if err != nil {
		t.Fatalf("GetTaskByIDAndUser: %v", err)
	}
	if len(got.TagIDs) != 0 {
		t.Errorf("TagIDs: got %v, want empty", got.TagIDs)
	}
}

func TestDeleteTag_WrongUser(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestTag(t, s, "user-1", "tag-1", "urgent")

	err := s.DeleteTag(context.Background(), "tag-1", "user-2")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTagsByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestTag(t, s, "user-1", "tag-1", "zebra")
	insertTestTag(t, s, "user-1", "tag-2", "alpha")
	insertTestTag(t, s, "user-2", "tag-3", "other")

	tags, err := s.ListTagsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTagsByUser: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	// Ordered by title.
	if tags[0].Title != "alpha" || tags[1].Title != "zebra" {
		t.Errorf("order: got [%s, %s]", tags[0].Title, tags[1].Title)
	}
}
