// Package search provides full-text search over tasks, notes, and collections
// using Bleve. Every document carries its owner's user ID so queries can be
// scoped to a single account.
package search

import "github.com/taskdeckapp/taskdeck-server/internal/domain"

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeTask       DocType = "task"
	DocTypeNote       DocType = "note"
	DocTypeCollection DocType = "collection"
)

// SearchDocument is the unified document structure for the Bleve index.
// All searchable entities are indexed as SearchDocuments with type
// discrimination. Entity IDs are already globally unique (task-, note-,
// coll- prefixes), so they double as document IDs.
type SearchDocument struct {
	// Identity
	ID     string  `json:"id"`
	Type   DocType `json:"type"`
	UserID string  `json:"user_id"` // Owner; every query filters on this

	// Primary searchable text
	Title string `json:"title"`
	// Body is the secondary text: task description, note content, or
	// collection description.
	Body string `json:"body,omitempty"`

	// Task-specific keyword fields (empty for other types)
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our mapping
// uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Body != "" {
		m["body"] = d.Body
	}
	if d.Status != "" {
		m["status"] = d.Status
	}
	if d.Priority != "" {
		m["priority"] = d.Priority
	}

	return m
}

// TaskToSearchDocument converts a domain Task to a SearchDocument.
func TaskToSearchDocument(t *domain.Task) *SearchDocument {
	return &SearchDocument{
		ID:        t.ID,
		Type:      DocTypeTask,
		UserID:    t.UserID,
		Title:     t.Title,
		Body:      t.Description,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt.UnixMilli(),
		UpdatedAt: t.UpdatedAt.UnixMilli(),
	}
}

// NoteToSearchDocument converts a domain Note to a SearchDocument.
func NoteToSearchDocument(n *domain.Note) *SearchDocument {
	return &SearchDocument{
		ID:        n.ID,
		Type:      DocTypeNote,
		UserID:    n.UserID,
		Title:     n.Title,
		Body:      n.Content,
		CreatedAt: n.CreatedAt.UnixMilli(),
		UpdatedAt: n.UpdatedAt.UnixMilli(),
	}
}

// CollectionToSearchDocument converts a domain Collection to a SearchDocument.
func CollectionToSearchDocument(c *domain.Collection) *SearchDocument {
	return &SearchDocument{
		ID:        c.ID,
		Type:      DocTypeCollection,
		UserID:    c.UserID,
		Title:     c.Title,
		Body:      c.Description,
		CreatedAt: c.CreatedAt.UnixMilli(),
		UpdatedAt: c.UpdatedAt.UnixMilli(),
	}
}
