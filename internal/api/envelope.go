package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope shape changes. Clients
// check it before parsing the rest of the response.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper around every API response.
// Success responses carry data; error responses carry error, code and
// optional details.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the Envelope shape.
// Registered as a huma transformer so handlers return plain bodies.
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

	return &Envelope{
		V:       envelopeVersion,
		Success: len(status) > 0 && status[0] == '2',
		Data:    v,
	}, nil
}
