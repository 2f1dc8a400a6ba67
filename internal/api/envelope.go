package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope structure changes in a way
// clients must handle.
const envelopeVersion = 1

// Envelope is the uniform wrapper around every response body. Success
// responses carry their payload under "data"; error responses carry a
// machine-readable code, a message, and optional details.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error summary"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in an Envelope. Registered
// as a huma transformer so handlers return plain payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if strings.HasPrefix(status, "2") || v == nil {
		return &Envelope{
			V:       envelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	return v, nil
}
