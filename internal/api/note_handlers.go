package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the current user's notes, optionally filtered by collection",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Description: "Creates a new note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Partially updates a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID           string    `json:"id" doc:"Note ID"`
	Title        string    `json:"title" doc:"Note title"`
	Content      string    `json:"content,omitempty" doc:"Note content"`
	CollectionID string    `json:"collection_id,omitempty" doc:"Containing collection ID"`
	TagIDs       []string  `json:"tag_ids" doc:"Attached tag IDs"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

// ListNotesInput contains filter parameters for listing notes.
type ListNotesInput struct {
	CollectionID string `query:"collection_id" required:"false" doc:"Filter by collection"`
}

// ListNotesResponse contains a list of notes.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes" doc:"List of notes"`
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200" doc:"Note title"`
	Content      string   `json:"content,omitempty" validate:"omitempty,max=100000" doc:"Note content"`
	CollectionID string   `json:"collection_id,omitempty" doc:"Collection to file the note in"`
	TagIDs       []string `json:"tag_ids,omitempty" doc:"Tag IDs to attach"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// GetNoteInput contains parameters for getting a note.
type GetNoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// UpdateNoteRequest is the request body for updating a note. Omitted fields
// are left unchanged; tag_ids set to an empty array clears the tag set.
type UpdateNoteRequest struct {
	Title        *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200" doc:"Note title"`
	Content      *string   `json:"content,omitempty" validate:"omitempty,max=100000" doc:"Note content"`
	CollectionID *string   `json:"collection_id,omitempty" doc:"Collection ID (empty string detaches)"`
	TagIDs       *[]string `json:"tag_ids,omitempty" doc:"Replacement tag set"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

// DeleteNoteInput contains parameters for deleting a note.
type DeleteNoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.List(ctx, userID, input.CollectionID)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, n := range notes {
		resp[i] = mapNoteResponse(n)
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: resp}}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Create(ctx, userID, service.CreateNoteRequest{
		Title:        input.Body.Title,
		Content:      input.Body.Content,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *GetNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Update(ctx, userID, input.ID, service.UpdateNoteRequest{
		Title:        input.Body.Title,
		Content:      input.Body.Content,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		CollectionID: n.CollectionID,
		TagIDs:       n.TagIDs,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}
