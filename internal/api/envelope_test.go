package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEnvelope(t *testing.T, status string, v any) map[string]any {
	t.Helper()

	result, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnvelope_Success(t *testing.T) {
	out := marshalEnvelope(t, "200", map[string]string{"id": "task-123"})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelope_SuccessNoData(t *testing.T) {
	out := marshalEnvelope(t, "204", nil)

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
}

func TestEnvelope_Error(t *testing.T) {
	out := marshalEnvelope(t, "409", &APIError{
		status:  409,
		Code:    "CONFLICT",
		Message: "a tag with this title already exists",
	})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "CONFLICT", out["code"])
	assert.Equal(t, "a tag with this title already exists", out["message"])
	assert.Equal(t, "a tag with this title already exists", out["error"])
	assert.NotContains(t, out, "data")
}

func TestEnvelope_ErrorDetails(t *testing.T) {
	out := marshalEnvelope(t, "400", &APIError{
		status:  400,
		Code:    "VALIDATION",
		Message: "one or more tags do not exist",
		Details: map[string]any{"missing_tag_ids": []string{"tag-x"}},
	})

	assert.Contains(t, out, "details")
}

// The version field must stay named exactly "v"; clients key on it.
func TestEnvelope_VersionFieldName(t *testing.T) {
	out := marshalEnvelope(t, "200", nil)

	assert.Contains(t, out, "v")
	assert.NotContains(t, out, "version")
}
