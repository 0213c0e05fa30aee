package amocrm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the AmoCRM API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(strings.Join(nonEmpty(e.Title, e.Detail), ": "))
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("amocrm: status %d: %s", e.StatusCode, msg)
}

// Temporary reports whether the request may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Retryable reports whether the call may be repeated. Only throttled POSTs are repeated,
// a 5xx answer to a POST may arrive after the entity was already created.
func (e *APIError) Retryable(method string) bool {
	if method == http.MethodGet {
		return e.Temporary()
	}
	return e.StatusCode == http.StatusTooManyRequests
}

// UpstreamStatus exposes the HTTP status to error dumps.
func (e *APIError) UpstreamStatus() int {
	return e.StatusCode
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: truncate(string(body), errorBodyLimit)}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &problem) == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
	}
	return apiErr
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
