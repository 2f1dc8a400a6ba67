package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
	"github.com/taskdeckapp/taskdeck-server/internal/id"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// TaskService manages a user's tasks.
type TaskService struct {
	store  *sqlite.Store
	logger *logger.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(st *sqlite.Store, log *logger.Logger) *TaskService {
	return &TaskService{store: st, logger: log}
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=10000"`
	Status       string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	CollectionID string     `json:"collection_id"`
	TagIDs       []string   `json:"tag_ids"`
}

// UpdateTaskRequest is the payload for partially updating a task. Nil fields
// are left unchanged. A nil TagIDs keeps the current tag set; an empty slice
// clears it.
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=10000"`
	Status       *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	CollectionID *string    `json:"collection_id"`
	TagIDs       *[]string  `json:"tag_ids"`
}

// Create creates a task for the user. Status defaults to todo and priority
// to medium when omitted.
func (s *TaskService) Create(ctx context.Context, userID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.CollectionID != "" {
		if err := s.checkCollection(ctx, userID, req.CollectionID); err != nil {
			return nil, err
		}
	}

	tagIDs, err := resolveTagIDs(ctx, s.store, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	status := domain.TaskStatus(req.Status)
	if status == "" {
		status = domain.TaskStatusTodo
	}
	priority := domain.TaskPriority(req.Priority)
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	now := time.Now()
	task := &domain.Task{
		ID:           id.MustGenerate("task"),
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      req.DueDate,
		CollectionID: req.CollectionID,
		TagIDs:       tagIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Debug("task created", "task_id", task.ID, "user_id", userID)

	return task, nil
}

// Get returns the user's task with the given ID.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.store.GetTaskByIDAndUser(ctx, taskID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, optionally filtered by status, priority,
// and collection.
func (s *TaskService) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domainerrors.Validationf("invalid status filter %q", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return nil, domainerrors.Validationf("invalid priority filter %q", filter.Priority)
	}

	tasks, err := s.store.ListTasksByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update to the user's task. Scalar changes and a
// tag set replacement are committed in a single store write.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.ClearDueDate {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.CollectionID != nil {
		if *req.CollectionID != "" {
			if err := s.checkCollection(ctx, userID, *req.CollectionID); err != nil {
				return nil, err
			}
		}
		task.CollectionID = *req.CollectionID
	}

	replaceTags := req.TagIDs != nil
	if replaceTags {
		tagIDs, err := resolveTagIDs(ctx, s.store, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		task.TagIDs = tagIDs
	}

	task.Touch()
	if err := s.store.UpdateTask(ctx, task, replaceTags); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// Delete removes the user's task. Attached tags survive; only the
// associations are removed.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.store.DeleteTask(ctx, taskID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("task not found")
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Debug("task deleted", "task_id", taskID, "user_id", userID)

	return nil
}

func (s *TaskService) checkCollection(ctx context.Context, userID, collectionID string) error {
	if _, err := s.store.GetCollectionByIDAndUser(ctx, collectionID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("collection not found")
		}
		return fmt.Errorf("check collection: %w", err)
	}
	return nil
}
