package store

import (
	"context"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
)

// SearchIndexer is the interface for updating the search index.
// The store uses this to keep search in sync without depending on the search
// implementation. Index updates are best-effort and happen after commit; a
// failed index write never fails the request that caused it.
type SearchIndexer interface {
	IndexTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, taskID string) error
	IndexNote(ctx context.Context, n *domain.Note) error
	DeleteNote(ctx context.Context, noteID string) error
	IndexCollection(ctx context.Context, c *domain.Collection) error
	DeleteCollection(ctx context.Context, collectionID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexTask is a no-op.
func (NoopSearchIndexer) IndexTask(context.Context, *domain.Task) error { return nil }

// DeleteTask is a no-op.
func (NoopSearchIndexer) DeleteTask(context.Context, string) error { return nil }

// IndexNote is a no-op.
func (NoopSearchIndexer) IndexNote(context.Context, *domain.Note) error { return nil }

// DeleteNote is a no-op.
func (NoopSearchIndexer) DeleteNote(context.Context, string) error { return nil }

// IndexCollection is a no-op.
func (NoopSearchIndexer) IndexCollection(context.Context, *domain.Collection) error { return nil }

// DeleteCollection is a no-op.
func (NoopSearchIndexer) DeleteCollection(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
