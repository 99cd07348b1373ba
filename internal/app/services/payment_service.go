package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
	"github.com/nacosng/feeclearance/internal/pkg/email"
	"github.com/nacosng/feeclearance/internal/pkg/paystack"
)

// PaymentGateway abstracts the Paystack client for testing
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]string) (*paystack.InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResponse, error)
	ValidateWebhookSignature(body []byte, signature string) bool
}

// PaymentService drives the payment workflow: initialization against the
// gateway, confirmation from the callback and webhook paths, and the
// clearance side effects of a successful payment.
type PaymentService struct {
	paymentRepo   repositories.IPaymentRepository
	feeRepo       repositories.IFeeRepository
	studentRepo   repositories.IStudentRepository
	clearanceRepo repositories.IClearanceRepository
	notifRepo     repositories.INotificationRepository
	gateway       PaymentGateway
	emailService  email.EmailService
	callbackURL   string
	logger        zerolog.Logger
}

// NewPaymentService creates a new PaymentService. callbackURL is the absolute
// URL Paystack redirects the student to after checkout.
func NewPaymentService(
	paymentRepo repositories.IPaymentRepository,
	feeRepo repositories.IFeeRepository,
	studentRepo repositories.IStudentRepository,
	clearanceRepo repositories.IClearanceRepository,
	notifRepo repositories.INotificationRepository,
	gateway PaymentGateway,
	emailService email.EmailService,
	callbackURL string,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		feeRepo:       feeRepo,
		studentRepo:   studentRepo,
		clearanceRepo: clearanceRepo,
		notifRepo:     notifRepo,
		gateway:       gateway,
		emailService:  emailService,
		callbackURL:   callbackURL,
		logger:        logger,
	}
}

// Initialize creates a pending payment and opens a checkout session with the
// gateway. The amount is copied from the fee at this moment; later fee edits
// never change what a payment recorded.
func (s *PaymentService) Initialize(ctx context.Context, studentID, feeID int64) (*dto.InitializePaymentResponse, error) {
	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if !fee.IsActive {
		return nil, apperrors.ErrFeeInactive
	}

	alreadyPaid, err := s.paymentRepo.HasSuccessfulPayment(ctx, studentID, feeID)
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return nil, apperrors.ErrFeeAlreadyPaid
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	reference := paystack.GenerateReference()
	payment := &models.Payment{
		StudentID: studentID,
		FeeID:     feeID,
		Amount:    fee.Amount,
		Reference: reference,
		Status:    models.PaymentPending,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	metadata := map[string]string{
		"studentId":    fmt.Sprintf("%d", studentID),
		"feeId":        fmt.Sprintf("%d", feeID),
		"matricNumber": student.MatricNumber,
		"feeTitle":     fee.Title,
	}

	initResp, err := s.gateway.InitializeTransaction(ctx, student.Email, fee.Amount, reference, s.callbackURL, metadata)
	if err != nil {
		// The gateway never saw this transaction; close the attempt so it
		// does not linger as pending.
		if _, failErr := s.paymentRepo.MarkFailed(ctx, reference); failErr != nil {
			s.logger.Error().Err(failErr).Str("reference", reference).Msg("Failed to mark payment failed after gateway error")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", studentID).
		Int64("feeId", feeID).
		Str("reference", reference).
		Msg("Payment initialized")

	return &dto.InitializePaymentResponse{
		AuthorizationURL: initResp.AuthorizationURL,
		Reference:        reference,
	}, nil
}

// Confirm re-verifies a payment with the gateway and settles it. This backs
// the redirect callback; the webhook path lands in the same settlement, so
// whichever arrives first wins and the other becomes a no-op.
func (s *PaymentService) Confirm(ctx context.Context, reference string) (*models.Payment, error) {
	if reference == "" {
		return nil, apperrors.ErrPaymentNotFound
	}

	verifyResp, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch verifyResp.Status {
	case "success":
		return s.settleSuccess(ctx, reference)
	case "failed", "abandoned", "reversed":
		return s.settleFailure(ctx, reference)
	default:
		// Still ongoing at the gateway; report current state unchanged.
		return s.paymentRepo.GetByReference(ctx, reference)
	}
}

// HandleWebhook processes a Paystack webhook delivery. The signature is
// checked against the raw body before anything else.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.ValidateWebhookSignature(body, signature) {
		return apperrors.ErrInvalidSignature
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.NewValidationError("malformed webhook payload")
	}

	switch event.Event {
	case "charge.success":
		_, err := s.settleSuccess(ctx, event.Data.Reference)
		return err
	case "charge.failed":
		_, err := s.settleFailure(ctx, event.Data.Reference)
		return err
	default:
		s.logger.Debug().Str("event", event.Event).Msg("Ignoring webhook event")
		return nil
	}
}

// settleSuccess flips the payment to success and, exactly once, runs the
// side effects: clearance, notification and the receipt email. The
// conditional update in MarkSuccess decides the winner between concurrent
// callback and webhook confirmation.
func (s *PaymentService) settleSuccess(ctx context.Context, reference string) (*models.Payment, error) {
	payment, err := s.paymentRepo.MarkSuccess(ctx, reference)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPaymentNotFound) {
			return nil, err
		}
		// No pending row: either the reference is unknown or someone else
		// already settled it. The latter is a fine no-op.
		existing, getErr := s.paymentRepo.GetByReference(ctx, reference)
		if getErr != nil {
			return nil, getErr
		}
		return existing, nil
	}

	s.logger.Info().
		Str("reference", reference).
		Int64("studentId", payment.StudentID).
		Msg("Payment confirmed")

	if _, err := s.clearanceRepo.SetCleared(ctx, payment.StudentID); err != nil {
		s.logger.Error().Err(err).Int64("studentId", payment.StudentID).Msg("Failed to update clearance after payment")
	}

	feeTitle := ""
	if fee, err := s.feeRepo.GetByID(ctx, payment.FeeID); err == nil {
		feeTitle = fee.Title
	}

	notification := &models.Notification{
		StudentID: payment.StudentID,
		Title:     "Payment Successful",
		Message:   fmt.Sprintf("Your payment for %s has been confirmed. Reference: %s", feeTitle, reference),
		Type:      models.NotificationSuccess,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Str("reference", reference).Msg("Failed to create payment notification")
	}

	if student, err := s.studentRepo.GetByID(ctx, payment.StudentID); err == nil {
		if err := s.emailService.SendPaymentConfirmationEmail(student.Email, student.FullName, feeTitle, reference, payment.Amount); err != nil {
			s.logger.Error().Err(err).Str("reference", reference).Msg("Failed to send payment confirmation email")
		}
	}

	return payment, nil
}

func (s *PaymentService) settleFailure(ctx context.Context, reference string) (*models.Payment, error) {
	flipped, err := s.paymentRepo.MarkFailed(ctx, reference)
	if err != nil {
		return nil, err
	}
	if flipped {
		s.logger.Info().Str("reference", reference).Msg("Payment marked failed")
	}
	return s.paymentRepo.GetByReference(ctx, reference)
}

// GetByReference fetches a payment by reference, restricted to its owner for
// student callers
func (s *PaymentService) GetByReference(ctx context.Context, reference string, studentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if studentID > 0 && payment.StudentID != studentID {
		return nil, apperrors.ErrPaymentNotFound
	}
	return payment, nil
}
