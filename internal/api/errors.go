package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response or a transport failure. Transport
// failures (no response at all) have Status 0.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus exposes the status to packages that only know about the method
func (e *APIError) HTTPStatus() int {
	return e.Status
}

func statusOf(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsConflict reports a 409, which the completion endpoint uses for "already done today"
func IsConflict(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusConflict
}

// IsUnauthorized reports a 401 from any endpoint
func IsUnauthorized(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusNotFound
}

// IsNetwork reports a transport failure with no HTTP response
func IsNetwork(err error) bool {
	s, ok := statusOf(err)
	return ok && s == 0
}

func networkError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: err}
}

// responseError builds an APIError from a failed response body. The message
// is the JSON "detail" or "error" field when present, else the raw body,
// else "HTTP {code}: {text}".
func responseError(status int, body []byte) *APIError {
	text := http.StatusText(status)
	e := &APIError{Status: status, StatusText: text}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, raw := range []json.RawMessage{payload.Detail, payload.Error} {
			if msg := messageFrom(raw); msg != "" {
				e.Message = msg
				return e
			}
		}
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		e.Message = trimmed
		return e
	}
	e.Message = fmt.Sprintf("HTTP %d: %s", status, text)
	return e
}

// messageFrom accepts a plain string or any other JSON value (validation
// errors come back as a list) and renders it as text.
func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(raw)
}
