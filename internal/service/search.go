package service

import (
	"context"
	"fmt"

	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/search"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// SearchService provides full-text search across a user's tasks, notes, and
// collections.
type SearchService struct {
	index  *search.SearchIndex
	store  *sqlite.Store
	logger *logger.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, st *sqlite.Store, log *logger.Logger) *SearchService {
	return &SearchService{index: index, store: st, logger: log}
}

// SearchRequest is the payload for a search query.
type SearchRequest struct {
	Query  string   `json:"q" validate:"max=500"`
	Types  []string `json:"types" validate:"omitempty,dive,oneof=task note collection"`
	Limit  int      `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int      `json:"offset" validate:"omitempty,gte=0"`
}

// Search runs a query over the user's indexed documents. An empty query
// matches everything the user owns.
func (s *SearchService) Search(ctx context.Context, userID string, req SearchRequest) (*search.SearchResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.UserID = userID
	params.Query = req.Query
	params.Types = req.Types
	if req.Limit > 0 {
		params.Limit = req.Limit
	}
	if req.Offset > 0 {
		params.Offset = req.Offset
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// ReindexAll wipes the index and rebuilds it from the store. Used on startup
// when the index is freshly created or its mapping version changed.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	tasks, err := s.store.ListAllTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks for reindex: %w", err)
	}
	notes, err := s.store.ListAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes for reindex: %w", err)
	}
	colls, err := s.store.ListAllCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections for reindex: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(tasks)+len(notes)+len(colls))
	for _, t := range tasks {
		docs = append(docs, search.TaskToSearchDocument(t))
	}
	for _, n := range notes {
		docs = append(docs, search.NoteToSearchDocument(n))
	}
	for _, c := range colls {
		docs = append(docs, search.CollectionToSearchDocument(c))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index rebuilt",
		"tasks", len(tasks),
		"notes", len(notes),
		"collections", len(colls),
	)

	return nil
}
