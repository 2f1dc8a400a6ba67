package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskdeckapp/taskdeck-server/internal/search"
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search across the current user's tasks, notes, and collections",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains search parameters.
type SearchInput struct {
	Query  string   `query:"q" required:"false" doc:"Search query (empty matches everything)"`
	Types  []string `query:"types" required:"false" doc:"Document types to include (task, note, collection)"`
	Limit  int      `query:"limit" required:"false" minimum:"1" maximum:"100" doc:"Maximum hits to return"`
	Offset int      `query:"offset" required:"false" minimum:"0" doc:"Hits to skip for pagination"`
}

// SearchHitResponse is a single search result.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Document ID"`
	Type       string            `json:"type" doc:"Document type"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title" doc:"Document title"`
	Status     string            `json:"status,omitempty" doc:"Task status, if a task"`
	Priority   string            `json:"priority,omitempty" doc:"Task priority, if a task"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted match fragments"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string              `json:"query" doc:"The query that was run"`
	Total  uint64              `json:"total" doc:"Total matching documents"`
	TookMs int64               `json:"took_ms" doc:"Query duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Matching documents"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, userID, service.SearchRequest{
		Query:  input.Query,
		Types:  input.Types,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: mapSearchResponse(result)}, nil
}

func mapSearchResponse(result *search.SearchResult) SearchResponse {
	hits := make([]SearchHitResponse, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = SearchHitResponse{
			ID:         h.ID,
			Type:       string(h.Type),
			Score:      h.Score,
			Title:      h.Title,
			Status:     h.Status,
			Priority:   h.Priority,
			Highlights: h.Highlights,
		}
	}

	return SearchResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   hits,
	}
}
