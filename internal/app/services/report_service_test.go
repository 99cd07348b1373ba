package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/repositories"
)

func newReportFixture() (*mockStudentRepo, *mockPaymentRepo, *mockClearanceRepo, *ReportService) {
	studentRepo := &mockStudentRepo{}
	paymentRepo := &mockPaymentRepo{}
	clearanceRepo := &mockClearanceRepo{}
	svc := NewReportService(studentRepo, paymentRepo, clearanceRepo, zerolog.Nop())
	return studentRepo, paymentRepo, clearanceRepo, svc
}

func TestReportServiceDashboard(t *testing.T) {
	ctx := context.Background()

	studentRepo, paymentRepo, clearanceRepo, svc := newReportFixture()
	studentRepo.countFn = func(context.Context) (int, error) { return 120, nil }
	paymentRepo.totalRevenueFn = func(context.Context) (decimal.Decimal, error) {
		return decimal.NewFromInt(450000), nil
	}
	paymentRepo.countByStatusFn = func(context.Context) (map[models.PaymentStatus]int, error) {
		return map[models.PaymentStatus]int{
			models.PaymentSuccess: 90,
			models.PaymentPending: 5,
			models.PaymentFailed:  12,
		}, nil
	}
	clearanceRepo.countByStatusFn = func(context.Context) (map[models.ClearanceStatus]int, error) {
		return map[models.ClearanceStatus]int{
			models.ClearanceCleared:   80,
			models.ClearanceUncleared: 40,
		}, nil
	}
	paymentRepo.getRecentFn = func(_ context.Context, limit int) ([]*models.PaymentWithDetails, error) {
		if limit != dashboardRecent {
			t.Errorf("recent limit %d, want %d", limit, dashboardRecent)
		}
		return []*models.PaymentWithDetails{
			{Payment: models.Payment{ID: 1, Status: models.PaymentSuccess}, FeeTitle: "Dues"},
		}, nil
	}

	resp, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if resp.Stats.TotalStudents != 120 {
		t.Errorf("total students %d, want 120", resp.Stats.TotalStudents)
	}
	if !resp.Stats.TotalRevenue.Equal(decimal.NewFromInt(450000)) {
		t.Errorf("total revenue %s", resp.Stats.TotalRevenue)
	}
	if resp.Stats.SuccessfulPayments != 90 || resp.Stats.ClearedStudents != 80 {
		t.Errorf("counters wrong: %+v", resp.Stats)
	}
	if len(resp.RecentPayments) != 1 {
		t.Errorf("recent payments %d, want 1", len(resp.RecentPayments))
	}
}

func TestReportServiceReports(t *testing.T) {
	ctx := context.Background()

	t.Run("computes clearance rate from counts", func(t *testing.T) {
		studentRepo, paymentRepo, clearanceRepo, svc := newReportFixture()
		paymentRepo.totalRevenueFn = func(context.Context) (decimal.Decimal, error) {
			return decimal.NewFromInt(450000), nil
		}
		clearanceRepo.countByStatusFn = func(context.Context) (map[models.ClearanceStatus]int, error) {
			return map[models.ClearanceStatus]int{
				models.ClearanceCleared:   30,
				models.ClearanceUncleared: 90,
			}, nil
		}
		paymentRepo.revenueMonthFn = func(context.Context, int) ([]*models.RevenueByPeriod, error) {
			return []*models.RevenueByPeriod{{Period: "2026-08", Revenue: decimal.NewFromInt(200000), Count: 40}}, nil
		}
		paymentRepo.revenueDayFn = func(context.Context, int) ([]*models.RevenueByPeriod, error) {
			return nil, nil
		}
		studentRepo.departmentStatsFn = func(context.Context) ([]*models.DepartmentStats, error) {
			return []*models.DepartmentStats{
				{Department: "Computer Science", Students: 60, Cleared: 20, Revenue: decimal.NewFromInt(300000)},
			}, nil
		}

		report, err := svc.Reports(ctx)
		if err != nil {
			t.Fatalf("Reports returned error: %v", err)
		}
		if report.ClearanceRate != 25.0 {
			t.Errorf("clearance rate %v, want 25", report.ClearanceRate)
		}
		if len(report.MonthlyRevenue) != 1 || report.MonthlyRevenue[0].Period != "2026-08" {
			t.Errorf("monthly revenue %+v", report.MonthlyRevenue)
		}
		if len(report.Departments) != 1 || report.Departments[0].Students != 60 {
			t.Errorf("departments %+v", report.Departments)
		}
	})

	t.Run("no students means a zero clearance rate, not a division error", func(t *testing.T) {
		studentRepo, paymentRepo, clearanceRepo, svc := newReportFixture()
		paymentRepo.totalRevenueFn = func(context.Context) (decimal.Decimal, error) {
			return decimal.Zero, nil
		}
		clearanceRepo.countByStatusFn = func(context.Context) (map[models.ClearanceStatus]int, error) {
			return map[models.ClearanceStatus]int{}, nil
		}
		paymentRepo.revenueMonthFn = func(context.Context, int) ([]*models.RevenueByPeriod, error) { return nil, nil }
		paymentRepo.revenueDayFn = func(context.Context, int) ([]*models.RevenueByPeriod, error) { return nil, nil }
		studentRepo.departmentStatsFn = func(context.Context) ([]*models.DepartmentStats, error) { return nil, nil }

		report, err := svc.Reports(ctx)
		if err != nil {
			t.Fatalf("Reports returned error: %v", err)
		}
		if report.ClearanceRate != 0 {
			t.Errorf("clearance rate %v, want 0", report.ClearanceRate)
		}
		if !report.TotalRevenue.IsZero() {
			t.Errorf("total revenue %s, want 0", report.TotalRevenue)
		}
	})
}

func TestReportServiceExportPaymentsCSV(t *testing.T) {
	ctx := context.Background()

	paidAt := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	_, paymentRepo, _, svc := newReportFixture()
	paymentRepo.getAllDetailsFn = func(_ context.Context, filter repositories.PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error) {
		if limit != 0 {
			t.Errorf("export used limit %d, want 0 for the full set", limit)
		}
		return []*models.PaymentWithDetails{
			{
				Payment: models.Payment{
					Reference: "NACOS-EXP-AAA111",
					Amount:    decimal.RequireFromString("5000.5"),
					Status:    models.PaymentSuccess,
					PaidAt:    &paidAt,
					CreatedAt: paidAt.Add(-time.Hour),
				},
				FeeTitle:      "Departmental Dues",
				StudentName:   "Ada Obi",
				StudentMatric: "CSC/2021/001",
				StudentEmail:  "ada@example.com",
			},
		}, 1, nil
	}

	var buf bytes.Buffer
	if err := svc.ExportPaymentsCSV(ctx, &buf, repositories.PaymentFilter{}); err != nil {
		t.Fatalf("ExportPaymentsCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header plus one payment", len(records))
	}
	if records[0][0] != "Reference" {
		t.Errorf("header starts with %q", records[0][0])
	}
	row := records[1]
	if row[0] != "NACOS-EXP-AAA111" {
		t.Errorf("reference column %q", row[0])
	}
	if row[5] != "5000.50" {
		t.Errorf("amount column %q, want 5000.50", row[5])
	}
	if row[7] != "2026-08-15 10:30:00" {
		t.Errorf("paid at column %q", row[7])
	}
}
