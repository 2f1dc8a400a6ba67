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

// CollectionService manages a user's collections.
type CollectionService struct {
	store  *sqlite.Store
	logger *logger.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st *sqlite.Store, log *logger.Logger) *CollectionService {
	return &CollectionService{store: st, logger: log}
}

// CreateCollectionRequest is the payload for creating a collection.
type CreateCollectionRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Type        string   `json:"type" validate:"omitempty,oneof=general project area"`
	TagIDs      []string `json:"tag_ids"`
}

// UpdateCollectionRequest is the payload for partially updating a collection.
// Nil fields are left unchanged. A nil TagIDs keeps the current tag set; an
// empty slice clears it.
type UpdateCollectionRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Type        *string   `json:"type" validate:"omitempty,oneof=general project area"`
	TagIDs      *[]string `json:"tag_ids"`
}

// Create creates a collection for the user. Type defaults to general when
// omitted. Titles are unique per user, compared case-insensitively.
func (s *CollectionService) Create(ctx context.Context, userID string, req CreateCollectionRequest) (*domain.Collection, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagIDs, err := resolveTagIDs(ctx, s.store, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	collType := domain.CollectionType(req.Type)
	if collType == "" {
		collType = domain.CollectionTypeGeneral
	}

	now := time.Now()
	coll := &domain.Collection{
		ID:          id.MustGenerate("coll"),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        collType,
		TagIDs:      tagIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCollection(ctx, coll); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a collection with this title already exists")
		}
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.logger.Debug("collection created", "collection_id", coll.ID, "user_id", userID)

	return coll, nil
}

// Get returns the user's collection with the given ID.
func (s *CollectionService) Get(ctx context.Context, userID, collectionID string) (*domain.Collection, error) {
	coll, err := s.store.GetCollectionByIDAndUser(ctx, collectionID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("collection not found")
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return coll, nil
}

// List returns the user's collections ordered by title, optionally filtered
// by type.
func (s *CollectionService) List(ctx context.Context, userID string, typeFilter domain.CollectionType) ([]*domain.Collection, error) {
	if typeFilter != "" && !typeFilter.IsValid() {
		return nil, domainerrors.Validationf("invalid type filter %q", typeFilter)
	}

	colls, err := s.store.ListCollectionsByUser(ctx, userID, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return colls, nil
}

// Update applies a partial update to the user's collection. Scalar changes
// and a tag set replacement are committed in a single store write.
func (s *CollectionService) Update(ctx context.Context, userID, collectionID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	coll, err := s.Get(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		coll.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		coll.Description = *req.Description
	}
	if req.Type != nil {
		coll.Type = domain.CollectionType(*req.Type)
	}

	replaceTags := req.TagIDs != nil
	if replaceTags {
		tagIDs, err := resolveTagIDs(ctx, s.store, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		coll.TagIDs = tagIDs
	}

	coll.Touch()
	if err := s.store.UpdateCollection(ctx, coll, replaceTags); err != nil {
		switch {
		case domainerrors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("collection not found")
		case domainerrors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.Conflict("a collection with this title already exists")
		}
		return nil, fmt.Errorf("update collection: %w", err)
	}

	return coll, nil
}

// Delete removes the user's collection. Tasks and notes filed in it are
// detached, not deleted.
func (s *CollectionService) Delete(ctx context.Context, userID, collectionID string) error {
	if err := s.store.DeleteCollection(ctx, collectionID, userID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("collection not found")
		}
		return fmt.Errorf("delete collection: %w", err)
	}

	s.logger.Debug("collection deleted", "collection_id", collectionID, "user_id", userID)

	return nil
}
