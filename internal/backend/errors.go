package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/example/storefront/internal/validation"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrNotFound     = errors.New("backend: not found")
	ErrUnavailable  = errors.New("backend: unavailable")
)

// APIError is a non-2xx response from the REST backend.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     validation.FieldErrors
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("backend: %d: %s", e.StatusCode, e.Detail)
	case !e.Fields.Empty():
		return fmt.Sprintf("backend: %d: %s", e.StatusCode, e.Fields.Error())
	default:
		return fmt.Sprintf("backend: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Unwrap lets callers match status classes with errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUnavailable
	}
	return nil
}

// FieldErrors extracts per-field messages from err, if it carries any.
func FieldErrors(err error) validation.FieldErrors {
	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Fields.Empty() {
		return apiErr.Fields
	}
	return nil
}

// Detail returns the backend's human-readable message, or "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// decodeError understands the two error bodies the backend produces:
// {"detail": "..."} and {"field": ["msg", ...], "non_field_errors": [...]}.
func decodeError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		if len(apiErr.Detail) > 200 || strings.HasPrefix(apiErr.Detail, "<") {
			apiErr.Detail = ""
		}
		return apiErr
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := validation.FieldErrors{}
	for _, k := range keys {
		v := raw[k]
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if k == "detail" || k == "error" {
				apiErr.Detail = s
			} else {
				fields.Add(k, s)
			}
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			for _, msg := range list {
				fields.Add(k, msg)
			}
		}
	}
	if !fields.Empty() {
		apiErr.Fields = fields
	}
	return apiErr
}
