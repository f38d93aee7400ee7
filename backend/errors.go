package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quiz_portal/models"
)

// ErrUnreachable means no HTTP response came back at all.
var ErrUnreachable = errors.New("backend unreachable")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: extractMessage(body)}
}

// extractMessage pulls the human readable message out of an error body.
// Flask handlers use "message" or "msg", FastAPI uses "detail".
func extractMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"msg", "message", "error", "detail"} {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// Message turns err into the text shown to the user: the backend's own
// message when there is one, unreachable for transport failures, fallback
// otherwise.
func Message(err error, fallback, unreachable string) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnreachable):
		return unreachable
	default:
		return fallback
	}
}

type resultList []models.ResultRow

func (l *resultList) UnmarshalJSON(data []byte) error {
	var rows []models.ResultRow
	if err := json.Unmarshal(data, &rows); err == nil {
		*l = rows
		return nil
	}
	var wrapped struct {
		Results []models.ResultRow `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Results
	return nil
}
