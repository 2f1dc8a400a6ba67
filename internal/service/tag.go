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

// TagService manages a user's tags.
type TagService struct {
	store  *sqlite.Store
	logger *logger.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st *sqlite.Store, log *logger.Logger) *TagService {
	return &TagService{store: st, logger: log}
}

// CreateTagRequest is the payload for creating a tag.
type CreateTagRequest struct {
	Title string `json:"title" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateTagRequest is the payload for partially updating a tag. Nil fields
// are left unchanged.
type UpdateTagRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// Create creates a tag for the user. Titles are unique per user, compared
// case-insensitively.
func (s *TagService) Create(ctx context.Context, userID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        id.MustGenerate("tag"),
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a tag with this title already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Debug("tag created", "tag_id", tag.ID, "user_id", userID)

	return tag, nil
}

// Get returns the user's tag with the given ID.
func (s *TagService) Get(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTagByIDAndUser(ctx, tagID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// List returns all of the user's tags ordered by title.
func (s *TagService) List(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTagsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Update applies a partial update to the user's tag.
func (s *TagService) Update(ctx context.Context, userID, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		tag.Title = strings.TrimSpace(*req.Title)
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		switch {
		case domainerrors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("tag not found")
		case domainerrors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.Conflict("a tag with this title already exists")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete removes the user's tag. Associations with tasks, notes, and
// collections are removed with it; the entities themselves survive.
func (s *TagService) Delete(ctx context.Context, userID, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Debug("tag deleted", "tag_id", tagID, "user_id", userID)

	return nil
}
