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

// NoteService manages a user's notes.
type NoteService struct {
	store  *sqlite.Store
	logger *logger.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(st *sqlite.Store, log *logger.Logger) *NoteService {
	return &NoteService{store: st, logger: log}
}

// CreateNoteRequest is the payload for creating a note.
type CreateNoteRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Content      string   `json:"content" validate:"max=100000"`
	CollectionID string   `json:"collection_id"`
	TagIDs       []string `json:"tag_ids"`
}

// UpdateNoteRequest is the payload for partially updating a note. Nil fields
// are left unchanged. A nil TagIDs keeps the current tag set; an empty slice
// clears it.
type UpdateNoteRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content      *string   `json:"content" validate:"omitempty,max=100000"`
	CollectionID *string   `json:"collection_id"`
	TagIDs       *[]string `json:"tag_ids"`
}

// Create creates a note for the user.
func (s *NoteService) Create(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
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

	now := time.Now()
	note := &domain.Note{
		ID:           id.MustGenerate("note"),
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		Content:      req.Content,
		CollectionID: req.CollectionID,
		TagIDs:       tagIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.Debug("note created", "note_id", note.ID, "user_id", userID)

	return note, nil
}

// Get returns the user's note with the given ID.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNoteByIDAndUser(ctx, noteID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// List returns the user's notes, optionally filtered by collection.
func (s *NoteService) List(ctx context.Context, userID, collectionID string) ([]*domain.Note, error) {
	notes, err := s.store.ListNotesByUser(ctx, userID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update applies a partial update to the user's note. Scalar changes and a
// tag set replacement are committed in a single store write.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.CollectionID != nil {
		if *req.CollectionID != "" {
			if err := s.checkCollection(ctx, userID, *req.CollectionID); err != nil {
				return nil, err
			}
		}
		note.CollectionID = *req.CollectionID
	}

	replaceTags := req.TagIDs != nil
	if replaceTags {
		tagIDs, err := resolveTagIDs(ctx, s.store, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		note.TagIDs = tagIDs
	}

	note.Touch()
	if err := s.store.UpdateNote(ctx, note, replaceTags); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// Delete removes the user's note.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.store.DeleteNote(ctx, noteID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("note not found")
		}
		return fmt.Errorf("delete note: %w", err)
	}

	s.logger.Debug("note deleted", "note_id", noteID, "user_id", userID)

	return nil
}

func (s *NoteService) checkCollection(ctx context.Context, userID, collectionID string) error {
	if _, err := s.store.GetCollectionByIDAndUser(ctx, collectionID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("collection not found")
		}
		return fmt.Errorf("check collection: %w", err)
	}
	return nil
}
