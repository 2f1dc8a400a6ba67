package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Description: "Returns the current user's collections ordered by title",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections",
		Summary:     "Create collection",
		Description: "Creates a new collection",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a collection by ID",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Description: "Partially updates a collection",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes a collection; its tasks and notes are detached, not deleted",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCollection)
}

// === DTOs ===

// CollectionResponse contains collection data in API responses.
type CollectionResponse struct {
	ID          string    `json:"id" doc:"Collection ID"`
	Title       string    `json:"title" doc:"Collection title"`
	Description string    `json:"description,omitempty" doc:"Collection description"`
	Type        string    `json:"type" doc:"Collection type"`
	TagIDs      []string  `json:"tag_ids" doc:"Attached tag IDs"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListCollectionsInput contains filter parameters for listing collections.
type ListCollectionsInput struct {
	Type string `query:"type" enum:"general,project,area" required:"false" doc:"Filter by type"`
}

// ListCollectionsResponse contains a list of collections.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections" doc:"List of collections"`
}

// ListCollectionsOutput wraps the list collections response for Huma.
type ListCollectionsOutput struct {
	Body ListCollectionsResponse
}

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=100" doc:"Collection title"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Collection description"`
	Type        string   `json:"type,omitempty" validate:"omitempty,oneof=general project area" doc:"Collection type (default general)"`
	TagIDs      []string `json:"tag_ids,omitempty" doc:"Tag IDs to attach"`
}

// CreateCollectionInput wraps the create collection request for Huma.
type CreateCollectionInput struct {
	Body CreateCollectionRequest
}

// CollectionOutput wraps the collection response for Huma.
type CollectionOutput struct {
	Body CollectionResponse
}

// GetCollectionInput contains parameters for getting a collection.
type GetCollectionInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// UpdateCollectionRequest is the request body for updating a collection.
// Omitted fields are left unchanged; tag_ids set to an empty array clears
// the tag set.
type UpdateCollectionRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=100" doc:"Collection title"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Collection description"`
	Type        *string   `json:"type,omitempty" validate:"omitempty,oneof=general project area" doc:"Collection type"`
	TagIDs      *[]string `json:"tag_ids,omitempty" doc:"Replacement tag set"`
}

// UpdateCollectionInput wraps the update collection request for Huma.
type UpdateCollectionInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body UpdateCollectionRequest
}

// DeleteCollectionInput contains parameters for deleting a collection.
type DeleteCollectionInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	colls, err := s.services.Collection.List(ctx, userID, domain.CollectionType(input.Type))
	if err != nil {
		return nil, err
	}

	resp := make([]CollectionResponse, len(colls))
	for i, c := range colls {
		resp[i] = mapCollectionResponse(c)
	}

	return &ListCollectionsOutput{Body: ListCollectionsResponse{Collections: resp}}, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.Create(ctx, userID, service.CreateCollectionRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Type:        input.Body.Type,
		TagIDs:      input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: mapCollectionResponse(coll)}, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *GetCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: mapCollectionResponse(coll)}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.Update(ctx, userID, input.ID, service.UpdateCollectionRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Type:        input.Body.Type,
		TagIDs:      input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: mapCollectionResponse(coll)}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *DeleteCollectionInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Collection deleted"}}, nil
}

func mapCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        string(c.Type),
		TagIDs:      c.TagIDs,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
