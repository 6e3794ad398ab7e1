package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend. Message carries the
// server's error text; Fields carries per-field validation errors when the
// server returned them, so callers can surface them next to form inputs.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// newAPIError builds an APIError from a response body. The backend sends
// either {"error": "..."} or a per-field map
// {"phone": ["This field is required."]}; anything unparseable falls back to
// the raw body text.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) == 0 {
		return apiErr
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	var parts []string
	for key, raw := range envelope {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			if key == "error" || key == "detail" || key == "message" {
				parts = append(parts, msg)
			} else {
				apiErr.addField(key, msg)
			}
			continue
		}
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil {
			for _, m := range msgs {
				apiErr.addField(key, m)
			}
		}
	}

	if len(parts) > 0 {
		apiErr.Message = strings.Join(parts, "; ")
	} else if len(apiErr.Fields) > 0 {
		apiErr.Message = "validation failed"
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func (e *APIError) addField(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}
