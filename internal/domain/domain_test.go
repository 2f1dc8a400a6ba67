package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   bool
	}{
		{TaskStatusTodo, true},
		{TaskStatusInProgress, true},
		{TaskStatusDone, true},
		{TaskStatus(""), false},
		{TaskStatus("archived"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.IsValid(), "status %q", tt.status)
	}
}

func TestTaskPriority_IsValid(t *testing.T) {
	tests := []struct {
		priority TaskPriority
		want     bool
	}{
		{TaskPriorityLow, true},
		{TaskPriorityMedium, true},
		{TaskPriorityHigh, true},
		{TaskPriority("critical"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.priority.IsValid(), "priority %q", tt.priority)
	}
}

func TestCollectionType_IsValid(t *testing.T) {
	tests := []struct {
		typ  CollectionType
		want bool
	}{
		{CollectionTypeGeneral, true},
		{CollectionTypeProject, true},
		{CollectionTypeArea, true},
		{CollectionType("folder"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.IsValid(), "type %q", tt.typ)
	}
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	session := &Session{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, session.IsExpired(now))
	assert.False(t, session.IsExpired(session.ExpiresAt), "boundary counts as live")
	assert.True(t, session.IsExpired(now.Add(2*time.Hour)))
}

func TestTask_Touch(t *testing.T) {
	task := &Task{UpdatedAt: time.Now().Add(-time.Hour)}
	before := task.UpdatedAt

	task.Touch()

	assert.True(t, task.UpdatedAt.After(before))
}
