package dto

import (
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
)

// CreateFeeRequest represents a fee creation request. Amount positivity is
// validated in the service layer since the validator cannot inspect decimals.
type CreateFeeRequest struct {
	Title       string          `json:"title" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Session     string          `json:"session" binding:"required"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	IsActive    *bool           `json:"isActive"`
}

// UpdateFeeRequest represents a partial fee update. Nil fields are left
// unchanged.
type UpdateFeeRequest struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	Session     *string          `json:"session"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"isActive"`
}

// DeleteFeeResponse reports whether the fee was removed or merely deactivated
// because payments already reference it.
type DeleteFeeResponse struct {
	Message     string `json:"message"`
	Deactivated bool   `json:"deactivated"`
}

// FeeWithStatus decorates a fee with the requesting student's payment state
type FeeWithStatus struct {
	models.Fee
	IsPaid bool `json:"isPaid"`
}
