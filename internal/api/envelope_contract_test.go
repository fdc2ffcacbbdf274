package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The envelope shape is a wire contract with clients. These tests pin
// the exact field set so a refactor cannot silently change it.

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

func TestEnvelopeContract_Success(t *testing.T) {
	out := marshalEnvelope(t, "200", map[string]string{"id": "read-123", "title": "Test Book"})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")

	for key := range out {
		assert.Contains(t, []string{"v", "success", "data"}, key,
			"success envelope contains unexpected field: %s", key)
	}
}

func TestEnvelopeContract_SuccessNilData(t *testing.T) {
	out := marshalEnvelope(t, "204", nil)

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeContract_SimpleError(t *testing.T) {
	out := marshalEnvelope(t, "404", &APIError{
		status:  404,
		Code:    "NOT_FOUND",
		Message: "Reading not found",
	})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Reading not found", out["error"])
	assert.Equal(t, "NOT_FOUND", out["code"])
	assert.Equal(t, "Reading not found", out["message"])
	assert.NotContains(t, out, "data")
	assert.NotContains(t, out, "details")
}

func TestEnvelopeContract_ErrorWithDetails(t *testing.T) {
	out := marshalEnvelope(t, "422", &APIError{
		status:  422,
		Code:    "VALIDATION",
		Message: "validation failed",
		Details: map[string]string{"email": "email must be a valid email address"},
	})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "VALIDATION", out["code"])

	details, ok := out["details"].(map[string]any)
	require.True(t, ok, "details must be an object")
	assert.Equal(t, "email must be a valid email address", details["email"])
}

func TestEnvelopeContract_NonAPIErrorStatus(t *testing.T) {
	// Plain payloads on error statuses still envelope by status digit.
	out := marshalEnvelope(t, "500", map[string]string{"oops": "yes"})

	assert.Equal(t, false, out["success"])
}
