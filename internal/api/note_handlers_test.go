package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createCollection(t *testing.T, authHeader, title string) CollectionResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/collections", authHeader, map[string]any{"title": title})
	require.Equal(t, http.StatusOK, resp.Code, "create collection failed: %s", resp.Body.String())
	return decodeData[CollectionResponse](t, resp.Body.Bytes())
}

func TestNoteCRUD(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	tag := ts.createTag(t, authHeader, "reading")

	resp := ts.api.Post("/api/v1/notes", authHeader, map[string]any{
		"title":   "Reading list",
		"content": "The Go Programming Language",
		"tag_ids": []string{tag.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	created := decodeData[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Reading list", created.Title)
	assert.Equal(t, []string{tag.ID}, created.TagIDs)

	resp = ts.api.Patch("/api/v1/notes/"+created.ID, authHeader, map[string]any{
		"content": "The Go Programming Language; 100 Go Mistakes",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeData[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Reading list", updated.Title)
	assert.Equal(t, "The Go Programming Language; 100 Go Mistakes", updated.Content)
	assert.Equal(t, []string{tag.ID}, updated.TagIDs, "omitted tag_ids must not change the tag set")

	resp = ts.api.Delete("/api/v1/notes/"+created.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes/"+created.ID, authHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestNoteCollectionFilter(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	coll := ts.createCollection(t, authHeader, "Trip Planning")

	resp := ts.api.Post("/api/v1/notes", authHeader, map[string]any{
		"title":         "Packing checklist",
		"collection_id": coll.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/notes", authHeader, map[string]any{
		"title": "Loose thought",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes?collection_id="+coll.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	list := decodeData[ListNotesResponse](t, resp.Body.Bytes())
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Packing checklist", list.Notes[0].Title)
}

func TestNoteUnknownCollectionNotFound(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/notes", authHeader, map[string]any{
		"title":         "Orphan",
		"collection_id": "coll-missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestNotesAreScopedPerUser(t *testing.T) {
	ts := setupTestServer(t)
	aliceHeader, _ := ts.registerUser(t, "alice@example.com")
	bobHeader, _ := ts.registerUser(t, "bob@example.com")

	resp := ts.api.Post("/api/v1/notes", aliceHeader, map[string]any{"title": "Private"})
	require.Equal(t, http.StatusOK, resp.Code)
	note := decodeData[NoteResponse](t, resp.Body.Bytes())

	resp = ts.api.Get("/api/v1/notes/"+note.ID, bobHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/notes/"+note.ID, bobHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/notes/"+note.ID, aliceHeader)
	assert.Equal(t, http.StatusOK, resp.Code, "owner access must survive the foreign delete attempt")
}
