package domain

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a user-owned todo item. It may live inside a collection and carry
// any number of the owner's tags.
type Task struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CollectionID string       `json:"collection_id,omitempty"` // Empty = not in a collection
	TagIDs       []string     `json:"tag_ids"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now()
}

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	Status       TaskStatus
	Priority     TaskPriority
	CollectionID string
}
