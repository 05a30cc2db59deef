package domain

import "context"

// ContactRequest represents a contact form submission. No binding tags on
// purpose: all rules live in the usecase so every failure produces one
// field-targeted message instead of gin's struct-validation text.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactReceipt is the non-sensitive confirmation echoed back to the
// client after a successful delivery.
type ContactReceipt struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ContactUsecase defines the contact form pipeline: validate, compose,
// deliver. Implementations return *apperror.AppError so the HTTP boundary
// can map failure kinds without inspecting error text.
type ContactUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) (*ContactReceipt, error)
}
