package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not settled. The caller should ignore it (it is the
// double-click case), not retry.
var ErrSubmissionInFlight = errors.New("portfolio: a submission is already in flight")

// ValidationError is a locally detected input defect. Render Message next
// to the control named by Field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("portfolio: invalid %s: %s", e.Field, e.Message)
}

// NetworkError means the request never produced a server response. The
// right user message is "check your connection and try again", not the
// delivery-failure message.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("portfolio: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is an error response the server actually produced.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	// Field is set for server-side validation failures so the message can
	// be attached to the offending control.
	Field string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portfolio: API error %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether the server rejected the input itself.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsUnavailable reports whether the contact service is down (deployment
// defect or rate limit) as opposed to a failed delivery attempt.
func (e *APIError) IsUnavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

// apiErrorWrapper matches the backend's JSON envelope.
type apiErrorWrapper struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

func parseAPIError(statusCode int, body []byte) error {
	var wrapper apiErrorWrapper
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Message:    wrapper.Message,
			Field:      wrapper.Field,
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
	}
}
