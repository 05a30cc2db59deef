package apperror

import "net/http"

// Kind classifies a failure at its point of origin. Downstream code switches
// on Kind, never on error text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a user-correctable input defect.
	KindValidation
	// KindConfiguration is a deployment defect (missing credentials).
	KindConfiguration
	// KindDelivery is a relay failure while sending mail.
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Field names the offending input field for validation errors, so the
	// client can attach the message to the right control.
	Field string `json:"field,omitempty"`
	Err   error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 with a field-targeted message. Message must be
// specific and actionable; it is shown to the user verbatim.
func Validation(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: message,
		Field:   field,
	}
}

// Configuration builds a 503 with a generic "service unavailable" message.
// The wrapped cause (which env vars are missing) stays server-side.
func Configuration(err error) *AppError {
	return &AppError{
		Kind:    KindConfiguration,
		Code:    http.StatusServiceUnavailable,
		Message: "Contact service is temporarily unavailable. Please try again later.",
		Err:     err,
	}
}

// Delivery builds a 500 with a generic failure message. Relay diagnostics
// stay in the wrapped cause and are only ever logged server-side.
func Delivery(err error) *AppError {
	return &AppError{
		Kind:    KindDelivery,
		Code:    http.StatusInternalServerError,
		Message: "Failed to send your message. Please try again later.",
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func Internal(err error) *AppError {
	return New(KindUnknown, http.StatusInternalServerError, "Internal Server Error", err)
}
