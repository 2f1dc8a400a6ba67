package api

import (
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Session    *service.SessionService
	Task       *service.TaskService
	Note       *service.NoteService
	Collection *service.CollectionService
	Tag        *service.TagService
	Search     *service.SearchService
}
