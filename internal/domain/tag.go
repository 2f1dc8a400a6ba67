package domain

import "time"

// Tag is a user-owned label attached to tasks, notes, and collections.
// Titles are unique per user (case-insensitive); different users may own
// tags with the same title. A tag is never visible outside its owner.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color,omitempty"` // Display hint for clients
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}
