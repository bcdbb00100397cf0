package skanjo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrConnectivity is wrapped by every error returned when the backend could
// not be reached at all.
var ErrConnectivity = errors.New("failed to connect to the server")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	// Message is the server-provided message, or a generic per-operation
	// message when the body carried none.
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unauthorized reports bad credentials or a missing/invalid API key.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Temporary reports whether retrying the same call could succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// AsAPIError extracts *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Unauthorized()
}

// errorBody covers the message keys the backend is known to use.
type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Detail  json.RawMessage `json:"detail"`
}

// serverMessage extracts a human-readable message from an error body.
// FastAPI-style {"detail": "..."} and {"detail": [{"msg": "..."}]} are
// understood too.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(eb.Error); msg != "" {
		return msg
	}
	if len(eb.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
