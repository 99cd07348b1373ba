package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
)

// DashboardStats are the headline counters on the admin dashboard
type DashboardStats struct {
	TotalStudents      int             `json:"totalStudents"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	SuccessfulPayments int             `json:"successfulPayments"`
	PendingPayments    int             `json:"pendingPayments"`
	FailedPayments     int             `json:"failedPayments"`
	ClearedStudents    int             `json:"clearedStudents"`
	UnclearedStudents  int             `json:"unclearedStudents"`
}

// AdminDashboardResponse is the admin landing page payload
type AdminDashboardResponse struct {
	Stats          DashboardStats              `json:"stats"`
	RecentPayments []models.PaymentWithDetails `json:"recentPayments"`
}

// StudentSummary is the admin view of a student row
type StudentSummary struct {
	ID              int64                  `json:"id"`
	FullName        string                 `json:"fullName"`
	MatricNumber    string                 `json:"matricNumber"`
	Email           string                 `json:"email"`
	Department      string                 `json:"department"`
	Level           string                 `json:"level"`
	EmailVerified   bool                   `json:"emailVerified"`
	ClearanceStatus models.ClearanceStatus `json:"clearanceStatus"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// RevenueBucket is one period in a revenue breakdown. Period is a month
// ("2026-01") or a day ("2026-01-15") depending on the report.
type RevenueBucket struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// DepartmentRollup aggregates clearance and revenue per department
type DepartmentRollup struct {
	Department string          `json:"department"`
	Students   int             `json:"students"`
	Cleared    int             `json:"cleared"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ReportResponse is the admin reports payload
type ReportResponse struct {
	TotalRevenue   decimal.Decimal    `json:"totalRevenue"`
	ClearanceRate  float64            `json:"clearanceRate"`
	MonthlyRevenue []RevenueBucket    `json:"monthlyRevenue"`
	DailyRevenue   []RevenueBucket    `json:"dailyRevenue"`
	Departments    []DepartmentRollup `json:"departments"`
}

// UpdateSettingsRequest replaces the values of the named settings. Values are
// stored as raw JSON so the portal can keep arbitrary shapes per key.
type UpdateSettingsRequest struct {
	Settings map[string]json.RawMessage `json:"settings" binding:"required"`
}
