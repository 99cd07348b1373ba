package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/repositories"
)

const (
	reportMonths       = 12
	reportDays         = 30
	dashboardRecent    = 10
	csvTimestampLayout = "2006-01-02 15:04:05"
)

// ReportService serves the admin dashboard, reports and CSV export
type ReportService struct {
	studentRepo   repositories.IStudentRepository
	paymentRepo   repositories.IPaymentRepository
	clearanceRepo repositories.IClearanceRepository
	logger        zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	studentRepo repositories.IStudentRepository,
	paymentRepo repositories.IPaymentRepository,
	clearanceRepo repositories.IClearanceRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		studentRepo:   studentRepo,
		paymentRepo:   paymentRepo,
		clearanceRepo: clearanceRepo,
		logger:        logger,
	}
}

// Dashboard assembles the admin landing page counters and recent activity
func (s *ReportService) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	totalStudents, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.paymentRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	paymentCounts, err := s.paymentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	clearanceCounts, err := s.clearanceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.paymentRepo.GetRecent(ctx, dashboardRecent)
	if err != nil {
		return nil, err
	}

	recentPayments := make([]models.PaymentWithDetails, 0, len(recent))
	for _, p := range recent {
		recentPayments = append(recentPayments, *p)
	}

	return &dto.AdminDashboardResponse{
		Stats: dto.DashboardStats{
			TotalStudents:      totalStudents,
			TotalRevenue:       revenue,
			SuccessfulPayments: paymentCounts[models.PaymentSuccess],
			PendingPayments:    paymentCounts[models.PaymentPending],
			FailedPayments:     paymentCounts[models.PaymentFailed],
			ClearedStudents:    clearanceCounts[models.ClearanceCleared],
			UnclearedStudents:  clearanceCounts[models.ClearanceUncleared],
		},
		RecentPayments: recentPayments,
	}, nil
}

// Reports assembles the revenue and clearance breakdowns
func (s *ReportService) Reports(ctx context.Context) (*dto.ReportResponse, error) {
	revenue, err := s.paymentRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	clearanceCounts, err := s.clearanceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	cleared := clearanceCounts[models.ClearanceCleared]
	total := cleared + clearanceCounts[models.ClearanceUncleared]
	clearanceRate := 0.0
	if total > 0 {
		clearanceRate = float64(cleared) / float64(total) * 100
	}

	monthly, err := s.paymentRepo.RevenueByMonth(ctx, reportMonths)
	if err != nil {
		return nil, err
	}

	daily, err := s.paymentRepo.RevenueByDay(ctx, reportDays)
	if err != nil {
		return nil, err
	}

	departments, err := s.studentRepo.DepartmentStats(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ReportResponse{
		TotalRevenue:   revenue,
		ClearanceRate:  clearanceRate,
		MonthlyRevenue: make([]dto.RevenueBucket, 0, len(monthly)),
		DailyRevenue:   make([]dto.RevenueBucket, 0, len(daily)),
		Departments:    make([]dto.DepartmentRollup, 0, len(departments)),
	}

	for _, b := range monthly {
		report.MonthlyRevenue = append(report.MonthlyRevenue, dto.RevenueBucket{Period: b.Period, Revenue: b.Revenue, Count: b.Count})
	}
	for _, b := range daily {
		report.DailyRevenue = append(report.DailyRevenue, dto.RevenueBucket{Period: b.Period, Revenue: b.Revenue, Count: b.Count})
	}
	for _, d := range departments {
		report.Departments = append(report.Departments, dto.DepartmentRollup{
			Department: d.Department,
			Students:   d.Students,
			Cleared:    d.Cleared,
			Revenue:    d.Revenue,
		})
	}

	return report, nil
}

// GetStudents lists students with clearance status for the admin table
func (s *ReportService) GetStudents(ctx context.Context, search string, offset uint64, limit int) ([]*models.StudentWithClearance, int, error) {
	return s.studentRepo.GetAllWithClearance(ctx, search, offset, limit)
}

// GetPayments lists payments for the admin table with optional filters
func (s *ReportService) GetPayments(ctx context.Context, filter repositories.PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error) {
	return s.paymentRepo.GetAllWithDetails(ctx, filter, offset, limit)
}

// ExportPaymentsCSV streams the filtered payment history as CSV. A zero
// limit exports everything matching the filter.
func (s *ReportService) ExportPaymentsCSV(ctx context.Context, w io.Writer, filter repositories.PaymentFilter) error {
	payments, _, err := s.paymentRepo.GetAllWithDetails(ctx, filter, 0, 0)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"Reference", "Student", "Matric Number", "Email", "Fee", "Amount", "Status", "Paid At", "Created At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range payments {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format(csvTimestampLayout)
		}
		row := []string{
			p.Reference,
			p.StudentName,
			p.StudentMatric,
			p.StudentEmail,
			p.FeeTitle,
			p.Amount.StringFixed(2),
			string(p.Status),
			paidAt,
			p.CreatedAt.Format(csvTimestampLayout),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
