package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
	"github.com/nacosng/feeclearance/internal/pkg/dberrors"
)

// FeeService handles fee catalog management
type FeeService struct {
	feeRepo     repositories.IFeeRepository
	paymentRepo repositories.IPaymentRepository
	logger      zerolog.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(feeRepo repositories.IFeeRepository, paymentRepo repositories.IPaymentRepository, logger zerolog.Logger) *FeeService {
	return &FeeService{
		feeRepo:     feeRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

func validateFeeAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("amount must be greater than zero")
	}
	return nil
}

// Create adds a fee to the catalog. New fees are active unless the request
// says otherwise.
func (s *FeeService) Create(ctx context.Context, req *dto.CreateFeeRequest) (*models.Fee, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}
	if err := validateFeeAmount(req.Amount); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	fee := &models.Fee{
		Title:       title,
		Amount:      req.Amount,
		Session:     strings.TrimSpace(req.Session),
		Category:    req.Category,
		Description: req.Description,
		IsActive:    isActive,
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("feeId", fee.ID).Str("title", fee.Title).Msg("Fee created")
	return fee, nil
}

// Update applies a partial update to a fee
func (s *FeeService) Update(ctx context.Context, id int64, req *dto.UpdateFeeRequest) (*models.Fee, error) {
	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty")
		}
		fee.Title = title
	}
	if req.Amount != nil {
		if err := validateFeeAmount(*req.Amount); err != nil {
			return nil, err
		}
		fee.Amount = *req.Amount
	}
	if req.Session != nil {
		fee.Session = strings.TrimSpace(*req.Session)
	}
	if req.Category != nil {
		fee.Category = req.Category
	}
	if req.Description != nil {
		fee.Description = req.Description
	}
	if req.IsActive != nil {
		fee.IsActive = *req.IsActive
	}

	if err := s.feeRepo.Update(ctx, fee); err != nil {
		return nil, err
	}

	return fee, nil
}

// Delete removes a fee. A fee with payment history cannot be deleted without
// orphaning receipts, so it is deactivated instead; the return value tells
// the caller which happened.
func (s *FeeService) Delete(ctx context.Context, id int64) (deactivated bool, err error) {
	err = s.feeRepo.Delete(ctx, id)
	if err == nil {
		s.logger.Info().Int64("feeId", id).Msg("Fee deleted")
		return false, nil
	}
	if !dberrors.IsForeignKeyViolation(err) {
		return false, err
	}

	if err := s.feeRepo.Deactivate(ctx, id); err != nil {
		return false, err
	}

	s.logger.Info().Int64("feeId", id).Msg("Fee has payments, deactivated instead of deleted")
	return true, nil
}

// GetByID retrieves a single fee
func (s *FeeService) GetByID(ctx context.Context, id int64) (*models.Fee, error) {
	return s.feeRepo.GetByID(ctx, id)
}

// GetAll lists fees for the admin catalog
func (s *FeeService) GetAll(ctx context.Context, includeInactive bool) ([]*models.Fee, error) {
	return s.feeRepo.GetAll(ctx, includeInactive)
}

// GetActiveWithStatus lists active fees decorated with the student's
// payment state
func (s *FeeService) GetActiveWithStatus(ctx context.Context, studentID int64) ([]dto.FeeWithStatus, error) {
	fees, err := s.feeRepo.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.PaidFeeIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.FeeWithStatus, 0, len(fees))
	for _, fee := range fees {
		result = append(result, dto.FeeWithStatus{
			Fee:    *fee,
			IsPaid: paid[fee.ID],
		})
	}

	return result, nil
}
