// Package service implements the business logic of the Taskdeck server.
//
// Services sit between the HTTP handlers and the store. They validate
// requests, enforce ownership, resolve tag references, and translate store
// errors into domain errors the API layer can render.
package service

import (
	"github.com/taskdeckapp/taskdeck-server/internal/validation"
)

// validate is shared by all services in this package.
var validate = validation.New()
