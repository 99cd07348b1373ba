package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
)

// UpdateProfileRequest updates the mutable parts of a student profile.
// Matric number and email are immutable after registration.
type UpdateProfileRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Department string `json:"department" binding:"required"`
	Level      string `json:"level" binding:"required"`
}

// StudentInfo is the profile block embedded in student-facing responses
type StudentInfo struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	MatricNumber string `json:"matricNumber"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	Level        string `json:"level"`
}

// PaymentSummary aggregates a student's payment position across active fees
type PaymentSummary struct {
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	PaidCount        int             `json:"paidCount"`
	UnpaidCount      int             `json:"unpaidCount"`
}

// StudentDashboardResponse is the student landing page payload
type StudentDashboardResponse struct {
	Student         StudentInfo                 `json:"student"`
	ClearanceStatus models.ClearanceStatus      `json:"clearanceStatus"`
	Summary         PaymentSummary              `json:"summary"`
	RecentPayments  []models.PaymentWithDetails `json:"recentPayments"`
}

// ClearanceResponse backs the printable clearance certificate
type ClearanceResponse struct {
	Student   StudentInfo                 `json:"student"`
	Status    models.ClearanceStatus      `json:"status"`
	UpdatedAt time.Time                   `json:"updatedAt"`
	Payments  []models.PaymentWithDetails `json:"payments"`
}
