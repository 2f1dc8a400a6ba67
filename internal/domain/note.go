package domain

import "time"

// Note is a user-owned free-form text note. Like tasks, notes may live inside
// a collection and carry the owner's tags.
type Note struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	CollectionID string    `json:"collection_id,omitempty"` // Empty = not in a collection
	TagIDs       []string  `json:"tag_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}
