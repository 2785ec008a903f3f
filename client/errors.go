package client

import (
	"encoding/json"
	"fmt"
)

// APIError represents a structured error response from the PDIHub API.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	FailingStep int    `json:"failing_step,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.FailingStep > 0 {
		return fmt.Sprintf("pdihub: %d %s: %s (failing_step=%d)", e.StatusCode, e.Code, e.Message, e.FailingStep)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("pdihub: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("pdihub: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsUnauthorized returns true if the error is a 401 authentication failure.
func IsUnauthorized(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 401
	}
	return false
}

// IsForbidden returns true if the error is a 403 forbidden.
func IsForbidden(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 403
	}
	return false
}

// IsConflict returns true if the error is a 409 conflict (duplicate key).
func IsConflict(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 409
	}
	return false
}

// FailingStep extracts the form step a 422 validation error points at.
// Returns 0, false for any other error.
func FailingStep(err error) (int, bool) {
	if e, ok := err.(*APIError); ok && e.StatusCode == 422 && e.FailingStep > 0 {
		return e.FailingStep, true
	}
	return 0, false
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
