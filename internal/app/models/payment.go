package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment attempt. The only transitions are
// pending -> success and pending -> failed; both are terminal.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment defines a payment attempt based on the 'payments' table
type Payment struct {
	ID        int64           `json:"id" db:"id"`
	StudentID int64           `json:"studentId" db:"student_id"`
	FeeID     int64           `json:"feeId" db:"fee_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"` // Copied from the fee at creation, immutable after
	Reference string          `json:"reference" db:"reference"`
	Status    PaymentStatus   `json:"status" db:"status"`
	PaidAt    *time.Time      `json:"paidAt,omitempty" db:"paid_at"` // Set only on success
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// PaymentWithDetails joins a payment with its fee title and, for admin
// listings, the owning student's identity.
type PaymentWithDetails struct {
	Payment
	FeeTitle      string `json:"feeTitle" db:"fee_title"`
	StudentName   string `json:"studentName,omitempty" db:"student_name"`
	StudentMatric string `json:"studentMatric,omitempty" db:"student_matric"`
	StudentEmail  string `json:"studentEmail,omitempty" db:"student_email"`
}

// RevenueByPeriod is one bucket of a revenue breakdown grouped by month or day
type RevenueByPeriod struct {
	Period  string          `json:"period" db:"period"`
	Revenue decimal.Decimal `json:"revenue" db:"revenue"`
	Count   int             `json:"count" db:"count"`
}

// DepartmentStats aggregates student counts, clearance and revenue per department
type DepartmentStats struct {
	Department string          `json:"department" db:"department"`
	Students   int             `json:"students" db:"students"`
	Cleared    int             `json:"cleared" db:"cleared"`
	Revenue    decimal.Decimal `json:"revenue" db:"revenue"`
}
