package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionCRUD(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/collections", authHeader, map[string]any{
		"title":       "Home Renovation",
		"description": "Spring push",
		"type":        "project",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	created := decodeData[CollectionResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Home Renovation", created.Title)
	assert.Equal(t, "project", created.Type)

	resp = ts.api.Patch("/api/v1/collections/"+created.ID, authHeader, map[string]any{
		"description": "Pushed to summer",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeData[CollectionResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Pushed to summer", updated.Description)
	assert.Equal(t, "project", updated.Type)

	resp = ts.api.Delete("/api/v1/collections/"+created.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/collections/"+created.ID, authHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCollectionDefaultType(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	created := ts.createCollection(t, authHeader, "Inbox")
	assert.Equal(t, "general", created.Type)
}

func TestCollectionDuplicateTitleConflict(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	ts.createCollection(t, authHeader, "Inbox")

	resp := ts.api.Post("/api/v1/collections", authHeader, map[string]any{"title": "Inbox"})
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "CONFLICT", envelope.Code)
}

func TestCollectionTitleIsPerUser(t *testing.T) {
	ts := setupTestServer(t)
	aliceHeader, _ := ts.registerUser(t, "alice@example.com")
	bobHeader, _ := ts.registerUser(t, "bob@example.com")

	ts.createCollection(t, aliceHeader, "Inbox")

	// Same title under another account is fine
	resp := ts.api.Post("/api/v1/collections", bobHeader, map[string]any{"title": "Inbox"})
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestCollectionTypeFilter(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/collections", authHeader, map[string]any{"title": "Inbox"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/collections", authHeader, map[string]any{"title": "Garden", "type": "project"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/collections?type=project", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	list := decodeData[ListCollectionsResponse](t, resp.Body.Bytes())
	require.Len(t, list.Collections, 1)
	assert.Equal(t, "Garden", list.Collections[0].Title)
}

func TestCollectionDeleteDetachesTasks(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.registerUser(t, "alice@example.com")

	coll := ts.createCollection(t, authHeader, "Garden")

	resp := ts.api.Post("/api/v1/tasks", authHeader, map[string]any{
		"title":         "Plant tomatoes",
		"collection_id": coll.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	task := decodeData[TaskResponse](t, resp.Body.Bytes())

	resp = ts.api.Delete("/api/v1/collections/"+coll.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tasks/"+task.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code, "task must survive its collection")

	detached := decodeData[TaskResponse](t, resp.Body.Bytes())
	assert.Empty(t, detached.CollectionID)
}
