package portfolio

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Submission is one contact form submission.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// SubmissionResult is the server's confirmation of a delivered submission.
type SubmissionResult struct {
	Message string `json:"-"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Same pragmatic pattern the server enforces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minMessageLen = 10

// Validate applies the same rules the server does, in the same order, so
// the user gets immediate feedback without a round trip. Advisory only:
// the server remains the authority.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required."}
	}
	email := strings.TrimSpace(s.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required."}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address."}
	}
	message := strings.TrimSpace(s.Message)
	if message == "" {
		return &ValidationError{Field: "message", Message: "Message is required."}
	}
	if utf8.RuneCountInString(message) < minMessageLen {
		return &ValidationError{Field: "message", Message: "Message must be at least 10 characters long."}
	}
	return nil
}
