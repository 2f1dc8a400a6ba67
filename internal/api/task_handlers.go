package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

func (s *Server) registerTaskRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTasks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks",
		Summary:     "List tasks",
		Description: "Returns the current user's tasks, optionally filtered",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTask",
		Method:      http.MethodPost,
		Path:        "/api/v1/tasks",
		Summary:     "Create task",
		Description: "Creates a new task",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTask",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Get task",
		Description: "Returns a task by ID",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTask",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Update task",
		Description: "Partially updates a task",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTask",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Delete task",
		Description: "Deletes a task",
		Tags:        []string{"Tasks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTask)
}

// === DTOs ===

// TaskResponse contains task data in API responses.
type TaskResponse struct {
	ID           string     `json:"id" doc:"Task ID"`
	Title        string     `json:"title" doc:"Task title"`
	Description  string     `json:"description,omitempty" doc:"Task description"`
	Status       string     `json:"status" doc:"Workflow status"`
	Priority     string     `json:"priority" doc:"Priority"`
	DueDate      *time.Time `json:"due_date,omitempty" doc:"Due date"`
	CollectionID string     `json:"collection_id,omitempty" doc:"Containing collection ID"`
	TagIDs       []string   `json:"tag_ids" doc:"Attached tag IDs"`
	CreatedAt    time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time  `json:"updated_at" doc:"Last update time"`
}

// ListTasksInput contains filter parameters for listing tasks.
type ListTasksInput struct {
	Status       string `query:"status" enum:"todo,in_progress,done" required:"false" doc:"Filter by status"`
	Priority     string `query:"priority" enum:"low,medium,high" required:"false" doc:"Filter by priority"`
	CollectionID string `query:"collection_id" required:"false" doc:"Filter by collection"`
}

// ListTasksResponse contains a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks" doc:"List of tasks"`
}

// ListTasksOutput wraps the list tasks response for Huma.
type ListTasksOutput struct {
	Body ListTasksResponse
}

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200" doc:"Task title"`
	Description  string     `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Task description"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done" doc:"Workflow status (default todo)"`
	Priority     string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high" doc:"Priority (default medium)"`
	DueDate      *time.Time `json:"due_date,omitempty" doc:"Due date"`
	CollectionID string     `json:"collection_id,omitempty" doc:"Collection to file the task in"`
	TagIDs       []string   `json:"tag_ids,omitempty" doc:"Tag IDs to attach"`
}

// CreateTaskInput wraps the create task request for Huma.
type CreateTaskInput struct {
	Body CreateTaskRequest
}

// TaskOutput wraps the task response for Huma.
type TaskOutput struct {
	Body TaskResponse
}

// GetTaskInput contains parameters for getting a task.
type GetTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

// UpdateTaskRequest is the request body for updating a task. Omitted fields
// are left unchanged; tag_ids set to an empty array clears the tag set.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200" doc:"Task title"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Task description"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done" doc:"Workflow status"`
	Priority     *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high" doc:"Priority"`
	DueDate      *time.Time `json:"due_date,omitempty" doc:"Due date"`
	ClearDueDate bool       `json:"clear_due_date,omitempty" doc:"Remove the due date"`
	CollectionID *string    `json:"collection_id,omitempty" doc:"Collection ID (empty string detaches)"`
	TagIDs       *[]string  `json:"tag_ids,omitempty" doc:"Replacement tag set"`
}

// UpdateTaskInput wraps the update task request for Huma.
type UpdateTaskInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body UpdateTaskRequest
}

// DeleteTaskInput contains parameters for deleting a task.
type DeleteTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

// === Handlers ===

func (s *Server) handleListTasks(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.services.Task.List(ctx, userID, domain.TaskFilter{
		Status:       domain.TaskStatus(input.Status),
		Priority:     domain.TaskPriority(input.Priority),
		CollectionID: input.CollectionID,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = mapTaskResponse(t)
	}

	return &ListTasksOutput{Body: ListTasksResponse{Tasks: resp}}, nil
}

func (s *Server) handleCreateTask(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Create(ctx, userID, service.CreateTaskRequest{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Status:       input.Body.Status,
		Priority:     input.Body.Priority,
		DueDate:      input.Body.DueDate,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: mapTaskResponse(task)}, nil
}

func (s *Server) handleGetTask(ctx context.Context, input *GetTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: mapTaskResponse(task)}, nil
}

func (s *Server) handleUpdateTask(ctx context.Context, input *UpdateTaskInput) (*TaskOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Update(ctx, userID, input.ID, service.UpdateTaskRequest{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Status:       input.Body.Status,
		Priority:     input.Body.Priority,
		DueDate:      input.Body.DueDate,
		ClearDueDate: input.Body.ClearDueDate,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: mapTaskResponse(task)}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, input *DeleteTaskInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Task.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Task deleted"}}, nil
}

func mapTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		CollectionID: t.CollectionID,
		TagIDs:       t.TagIDs,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
