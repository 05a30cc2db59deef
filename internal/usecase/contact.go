package usecase

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/mail"

	"github.com/go-playground/validator/v10"
)

// Deliverer is the slice of the mail service the contact pipeline needs.
// Narrowed to an interface so tests can stub the relay.
type Deliverer interface {
	Deliver(ctx context.Context, sub mail.Submission) (*mail.Receipt, error)
}

// emailPattern is deliberately pragmatic: local part, @, domain, dot, tld.
// Exhaustive RFC validation buys nothing for a contact form.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// minMessageLen is the minimum trimmed message length in characters, not
// bytes, so multi-byte scripts are measured the way a person counts.
const minMessageLen = 10

type contactUsecase struct {
	mailer   Deliverer
	validate *validator.Validate
}

// NewContactUsecase creates the contact pipeline. mailer may be nil when
// SMTP credentials were missing at startup; submissions then fail with a
// "service unavailable" outcome instead of a delivery error.
func NewContactUsecase(mailer Deliverer, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{
		mailer:   mailer,
		validate: validate,
	}
}

// SendContactMessage validates the submission and relays it to the site
// owner. Rules are checked in field order and the first failure wins, so
// the client always gets one specific, actionable message.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (*domain.ContactReceipt, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)

	if err := uc.validate.Var(name, "required"); err != nil {
		return nil, apperror.Validation("name", "Name is required.")
	}
	if err := uc.validate.Var(email, "required"); err != nil {
		return nil, apperror.Validation("email", "Email is required.")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("email", "Please enter a valid email address.")
	}
	if err := uc.validate.Var(message, "required"); err != nil {
		return nil, apperror.Validation("message", "Message is required.")
	}
	if utf8.RuneCountInString(message) < minMessageLen {
		return nil, apperror.Validation("message", "Message must be at least 10 characters long.")
	}

	// Configuration is checked only after validation so a user with bad
	// input still gets the field-targeted message first.
	if uc.mailer == nil {
		return nil, apperror.Configuration(mail.ErrNotConfigured)
	}

	receipt, err := uc.mailer.Deliver(ctx, mail.Submission{
		SenderName:  name,
		SenderEmail: email,
		Subject:     subject,
		Message:     message,
	})
	if err != nil {
		// Relay diagnostics stay server-side; the client sees a generic failure
		logger.Log.Error("contact delivery failed", "error", err)
		return nil, apperror.Delivery(err)
	}

	logger.Log.Info("contact message delivered",
		"message_id", receipt.MessageID,
		"reply_to", email,
	)

	return &domain.ContactReceipt{Name: name, Email: email}, nil
}
