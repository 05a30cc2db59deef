package usecase_test

import (
	"context"
	"testing"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/mail"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Deliverer
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, sub mail.Submission) (*mail.Receipt, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mail.Receipt), args.Error(1)
}

func validRequest() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Hello, I would like to discuss a project opportunity.",
	}
}

func kindOf(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestContactValidation(t *testing.T) {
	validate := validator.New()

	cases := []struct {
		name      string
		mutate    func(*domain.ContactRequest)
		wantField string
	}{
		{"missing name", func(r *domain.ContactRequest) { r.Name = "" }, "name"},
		{"whitespace name", func(r *domain.ContactRequest) { r.Name = "   " }, "name"},
		{"missing email", func(r *domain.ContactRequest) { r.Email = "" }, "email"},
		{"whitespace email", func(r *domain.ContactRequest) { r.Email = " \t " }, "email"},
		{"email without at", func(r *domain.ContactRequest) { r.Email = "janeexample.com" }, "email"},
		{"email without tld", func(r *domain.ContactRequest) { r.Email = "jane@example" }, "email"},
		{"email with spaces", func(r *domain.ContactRequest) { r.Email = "jane doe@example.com" }, "email"},
		{"missing message", func(r *domain.ContactRequest) { r.Message = "" }, "message"},
		{"whitespace message", func(r *domain.ContactRequest) { r.Message = "  \n " }, "message"},
		{"short message", func(r *domain.ContactRequest) { r.Message = "Hi there" }, "message"},
		{"short after trim", func(r *domain.ContactRequest) { r.Message = "   Hello    " }, "message"},
		// 5 characters but 15 bytes: length is counted in characters
		{"short multi-byte message", func(r *domain.ContactRequest) { r.Message = "こんにちは" }, "message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockMailer := new(MockDeliverer)
			uc := usecase.NewContactUsecase(mockMailer, validate)

			req := validRequest()
			tc.mutate(req)

			_, err := uc.SendContactMessage(context.Background(), req)
			appErr := kindOf(t, err)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tc.wantField, appErr.Field)
			// Invalid input must never reach the relay
			mockMailer.AssertNotCalled(t, "Deliver")
		})
	}
}

func TestContactDelivery(t *testing.T) {
	validate := validator.New()

	t.Run("Should deliver with configured recipient and visitor reply-to", func(t *testing.T) {
		mockMailer := new(MockDeliverer)
		mockMailer.On("Deliver", mock.Anything, mock.MatchedBy(func(sub mail.Submission) bool {
			return sub.SenderEmail == "jane@example.com" && sub.SenderName == "Jane Doe"
		})).Return(&mail.Receipt{MessageID: "<id@relay>"}, nil)

		uc := usecase.NewContactUsecase(mockMailer, validate)
		receipt, err := uc.SendContactMessage(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", receipt.Name)
		assert.Equal(t, "jane@example.com", receipt.Email)
		mockMailer.AssertExpectations(t)
	})

	t.Run("Should accept a ten-character multi-byte message", func(t *testing.T) {
		mockMailer := new(MockDeliverer)
		mockMailer.On("Deliver", mock.Anything, mock.Anything).
			Return(&mail.Receipt{MessageID: "<id@relay>"}, nil)

		uc := usecase.NewContactUsecase(mockMailer, validate)
		req := validRequest()
		req.Message = "こんにちは、元気ですか"

		_, err := uc.SendContactMessage(context.Background(), req)
		require.NoError(t, err)
		mockMailer.AssertExpectations(t)
	})

	t.Run("Should trim fields before delivery", func(t *testing.T) {
		mockMailer := new(MockDeliverer)
		mockMailer.On("Deliver", mock.Anything, mock.MatchedBy(func(sub mail.Submission) bool {
			return sub.SenderName == "Jane Doe" && sub.Subject == "Hello"
		})).Return(&mail.Receipt{MessageID: "<id@relay>"}, nil)

		uc := usecase.NewContactUsecase(mockMailer, validate)
		req := validRequest()
		req.Name = "  Jane Doe  "
		req.Subject = " Hello "

		_, err := uc.SendContactMessage(context.Background(), req)
		require.NoError(t, err)
		mockMailer.AssertExpectations(t)
	})

	t.Run("Should report delivery failure without relay detail", func(t *testing.T) {
		mockMailer := new(MockDeliverer)
		mockMailer.On("Deliver", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		uc := usecase.NewContactUsecase(mockMailer, validate)
		_, err := uc.SendContactMessage(context.Background(), validRequest())

		appErr := kindOf(t, err)
		assert.Equal(t, apperror.KindDelivery, appErr.Kind)
		// Client-visible message is generic; the cause stays wrapped
		assert.NotContains(t, appErr.Message, assert.AnError.Error())
		assert.ErrorIs(t, appErr, assert.AnError)
	})
}

func TestContactNotConfigured(t *testing.T) {
	validate := validator.New()
	uc := usecase.NewContactUsecase(nil, validate)

	t.Run("Should answer service unavailable, not delivery failure", func(t *testing.T) {
		_, err := uc.SendContactMessage(context.Background(), validRequest())

		appErr := kindOf(t, err)
		assert.Equal(t, apperror.KindConfiguration, appErr.Kind)
		assert.ErrorIs(t, appErr, mail.ErrNotConfigured)
		assert.NotEqual(t, apperror.Delivery(nil).Message, appErr.Message)
	})

	t.Run("Should still report validation errors first", func(t *testing.T) {
		req := validRequest()
		req.Email = "not-an-email"

		_, err := uc.SendContactMessage(context.Background(), req)
		appErr := kindOf(t, err)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Equal(t, "email", appErr.Field)
	})
}

func TestVisitorCounter(t *testing.T) {
	// No Redis configured: counter runs on the in-process fallback
	uc := usecase.NewVisitorUsecase(nil)
	ctx := context.Background()

	first, err := uc.RecordVisit(ctx)
	require.NoError(t, err)
	second, err := uc.RecordVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	count, err := uc.VisitCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, count)
}
