package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the subscription service
type APIError struct {
	StatusCode int
	Status     string

	// Message is the body's message field, or the status text when the body
	// carries none
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means the request never produced a response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	message := extractMessage(body)
	if message == "" {
		message = statusText(resp)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
	}
}

// extractMessage reads the message field of an error body. The field is
// either a string or a list of strings, which are joined with ", ".
func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || isNullJSON(payload.Message) {
		return ""
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		return single
	}

	var many []interface{}
	if err := json.Unmarshal(payload.Message, &many); err == nil {
		parts := make([]string, 0, len(many))
		for _, m := range many {
			parts = append(parts, fmt.Sprint(m))
		}
		return strings.Join(parts, ", ")
	}

	return strings.TrimSpace(string(payload.Message))
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

// DescribeError renders err for an operator: transport failures read as
// network errors, everything else is prefixed with prefix
func DescribeError(prefix string, err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network Error: " + netErr.Error()
	}
	return prefix + err.Error()
}
