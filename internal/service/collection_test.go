package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

func newCollectionService(t *testing.T) (*CollectionService, *sqlite.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewCollectionService(st, testLogger()), st
}

func TestCollectionCreate_DefaultType(t *testing.T) {
	svc, st := newCollectionService(t)
	seedUser(t, st, "user-1")

	coll, err := svc.Create(context.Background(), "user-1", CreateCollectionRequest{Title: "Inbox"})
	require.NoError(t, err)

	assert.Equal(t, domain.CollectionTypeGeneral, coll.Type)
	assert.NotEmpty(t, coll.ID)
}

func TestCollectionCreate_DuplicateTitle(t *testing.T) {
	svc, st := newCollectionService(t)
	ctx := context.Background()
	seedUser(t, st, "user-1")

	_, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Work"})
	require.NoError(t, err)

	// Case-insensitive per user.
	_, err = svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "WORK"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestCollectionCreate_SameTitleDifferentUsers(t *testing.T) {
	svc, st := newCollectionService(t)
	ctx := context.Background()
	seedUser(t, st, "user-1")
	seedUser(t, st, "user-2")

	_, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Work"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", CreateCollectionRequest{Title: "Work"})
	require.NoError(t, err)
}

func TestCollectionUpdate_RenameConflict(t *testing.T) {
	svc, st := newCollectionService(t)
	ctx := context.Background()
	seedUser(t, st, "user-1")

	_, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Work"})
	require.NoError(t, err)
	home, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Home"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-1", home.ID, UpdateCollectionRequest{Title: strPtr("work")})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestCollectionUpdate_TagSemantics(t *testing.T) {
	svc, st := newCollectionService(t)
	ctx := context.Background()
	seedUser(t, st, "user-1")
	seedTag(t, st, "user-1", "tag-1", "focus")

	coll, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Deep Work", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-1"}, coll.TagIDs)

	updated, err := svc.Update(ctx, "user-1", coll.ID, UpdateCollectionRequest{Type: strPtr("project")})
	require.NoError(t, err)
	assert.Equal(t, domain.CollectionTypeProject, updated.Type)
	assert.Equal(t, []string{"tag-1"}, updated.TagIDs)

	updated, err = svc.Update(ctx, "user-1", coll.ID, UpdateCollectionRequest{TagIDs: &[]string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.TagIDs)
}

func TestCollectionList_TypeFilter(t *testing.T) {
	svc, st := newCollectionService(t)
	ctx := context.Background()
	seedUser(t, st, "user-1")

	_, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Alpha", Type: "project"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Beta"})
	require.NoError(t, err)

	projects, err := svc.List(ctx, "user-1", domain.CollectionTypeProject)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Alpha", projects[0].Title)

	_, err = svc.List(ctx, "user-1", "bogus")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCollectionDelete_DetachesTasks(t *testing.T) {
	svc, st := newCollectionService(t)
	tasks := NewTaskService(st, testLogger())
	ctx := context.Background()
	seedUser(t, st, "user-1")

	coll, err := svc.Create(ctx, "user-1", CreateCollectionRequest{Title: "Temp"})
	require.NoError(t, err)

	task, err := tasks.Create(ctx, "user-1", CreateTaskRequest{Title: "Filed", CollectionID: coll.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", coll.ID))

	survivor, err := tasks.Get(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Empty(t, survivor.CollectionID)
}
