package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee defines a fee definition based on the 'fees' table
type Fee struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Amount      decimal.Decimal `json:"amount" db:"amount"` // NUMERIC(12,2), exact currency precision
	Session     string          `json:"session" db:"session"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	Category    *string         `json:"category,omitempty" db:"category"`
	Description *string         `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
