package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx backend response: the HTTP status plus the exact
// server payload, so callers can branch on structured error messages
// instead of parsing strings.
type Error struct {
	Status  int
	Payload []byte
}

func (e *Error) Error() string {
	if len(e.Payload) == 0 {
		return fmt.Sprintf("backend API error: status %d", e.Status)
	}
	return fmt.Sprintf("backend API error: status %d: %s", e.Status, string(e.Payload))
}

// Message extracts the server-provided message from the payload, if
// the payload is a JSON object with a "message" field. Falls back to
// the raw payload text.
func (e *Error) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(e.Payload)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 backend response.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
