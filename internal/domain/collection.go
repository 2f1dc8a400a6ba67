package domain

import "time"

// CollectionType distinguishes what a collection is primarily used for.
// Purely informational; tasks and notes can be filed into any collection.
type CollectionType string

// Valid collection types.
const (
	CollectionTypeGeneral CollectionType = "general"
	CollectionTypeProject CollectionType = "project"
	CollectionTypeArea    CollectionType = "area"
)

// IsValid reports whether the type is one of the known values.
func (t CollectionType) IsValid() bool {
	switch t {
	case CollectionTypeGeneral, CollectionTypeProject, CollectionTypeArea:
		return true
	}
	return false
}

// Collection groups a user's tasks and notes. Collection titles are unique
// per user (case-insensitive). Collections are themselves taggable.
type Collection struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Type        CollectionType `json:"type"`
	TagIDs      []string       `json:"tag_ids"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Collection) Touch() {
	c.UpdatedAt = time.Now()
}
