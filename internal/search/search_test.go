package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, created, err := NewSearchIndex(Options{
		IndexPath: filepath.Join(t.TempDir(), "search.bleve"),
	})
	require.NoError(t, err)
	assert.True(t, created)

	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestNewSearchIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexDocument(t *testing.T) {
	index := setupTestIndex(t)

	doc := &SearchDocument{
		ID:     "task-123",
		Type:   DocTypeTask,
		UserID: "user-1",
		Title:  "Buy groceries",
	}

	require.NoError(t, index.IndexDocument(doc))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexDocuments_Batch(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		{ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Task One"},
		{ID: "task-2", Type: DocTypeTask, UserID: "user-1", Title: "Task Two"},
		{ID: "note-1", Type: DocTypeNote, UserID: "user-1", Title: "Note One"},
	}

	require.NoError(t, index.IndexDocuments(docs))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_DeleteDocument(t *testing.T) {
	index := setupTestIndex(t)

	doc := &SearchDocument{ID: "task-123", Type: DocTypeTask, UserID: "user-1", Title: "Test Task"}
	require.NoError(t, index.IndexDocument(doc))

	require.NoError(t, index.DeleteDocument("task-123"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_Basic(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		{ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Plan vacation", Body: "Book flights to Lisbon"},
		{ID: "task-2", Type: DocTypeTask, UserID: "user-1", Title: "Renew passport"},
		{ID: "note-1", Type: DocTypeNote, UserID: "user-1", Title: "Vacation ideas", Body: "Portugal or Spain"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	result, err := index.Search(context.Background(), SearchParams{
		UserID: "user-1",
		Query:  "vacation",
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	assert.Contains(t, ids, "task-1")
	assert.Contains(t, ids, "note-1")
}

func TestSearchIndex_Search_ScopedToUser(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		{ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Secret plans"},
		{ID: "task-2", Type: DocTypeTask, UserID: "user-2", Title: "Secret plans"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	result, err := index.Search(context.Background(), SearchParams{
		UserID: "user-1",
		Query:  "secret",
		Limit:  10,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "task-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_RequiresUserID(t *testing.T) {
	index := setupTestIndex(t)

	_, err := index.Search(context.Background(), SearchParams{Query: "anything", Limit: 10})
	assert.Error(t, err)
}

func TestSearchIndex_Search_TypeFilter(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		{ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Project kickoff"},
		{ID: "note-1", Type: DocTypeNote, UserID: "user-1", Title: "Project retro notes"},
		{ID: "coll-1", Type: DocTypeCollection, UserID: "user-1", Title: "Project Phoenix"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	result, err := index.Search(context.Background(), SearchParams{
		UserID: "user-1",
		Query:  "project",
		Types:  []string{"note"},
		Limit:  10,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "note-1", result.Hits[0].ID)
	assert.Equal(t, DocTypeNote, result.Hits[0].Type)
}

func TestSearchIndex_Search_EmptyQueryListsAll(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		{ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Alpha"},
		{ID: "task-2", Type: DocTypeTask, UserID: "user-1", Title: "Beta"},
		{ID: "task-3", Type: DocTypeTask, UserID: "user-2", Title: "Gamma"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	result, err := index.Search(context.Background(), SearchParams{
		UserID: "user-1",
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
}

func TestSearchIndex_IndexTask(t *testing.T) {
	index := setupTestIndex(t)

	now := time.Now()
	task := &domain.Task{
		ID:          "task-1",
		UserID:      "user-1",
		Title:       "Water the plants",
		Description: "Especially the ferns",
		Status:      domain.TaskStatusTodo,
		Priority:    domain.TaskPriorityLow,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, index.IndexTask(context.Background(), task))

	result, err := index.Search(context.Background(), SearchParams{
		UserID: "user-1",
		Query:  "ferns",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "Water the plants", result.Hits[0].Title)
	assert.Equal(t, "todo", result.Hits[0].Status)

	require.NoError(t, index.DeleteTask(context.Background(), "task-1"))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocument(&SearchDocument{
		ID: "task-1", Type: DocTypeTask, UserID: "user-1", Title: "Old content",
	}))

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
