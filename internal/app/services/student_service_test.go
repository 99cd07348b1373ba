package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

type studentServiceFixture struct {
	studentRepo   *mockStudentRepo
	feeRepo       *mockFeeRepo
	paymentRepo   *mockPaymentRepo
	clearanceRepo *mockClearanceRepo
	notifRepo     *mockNotificationRepo
	service       *StudentService
}

func newStudentServiceFixture() *studentServiceFixture {
	f := &studentServiceFixture{
		studentRepo:   &mockStudentRepo{},
		feeRepo:       &mockFeeRepo{},
		paymentRepo:   &mockPaymentRepo{},
		clearanceRepo: &mockClearanceRepo{},
		notifRepo:     &mockNotificationRepo{},
	}
	f.service = NewStudentService(f.studentRepo, f.feeRepo, f.paymentRepo, f.clearanceRepo, f.notifRepo, zerolog.Nop())
	return f
}

func TestStudentServiceDashboard(t *testing.T) {
	ctx := context.Background()

	f := newStudentServiceFixture()
	f.studentRepo.getByIDFn = func(_ context.Context, id int64) (*models.Student, error) {
		return testStudent(id), nil
	}
	f.clearanceRepo.getByStudentFn = func(context.Context, int64) (*models.Clearance, error) {
		return &models.Clearance{StudentID: 2, Status: models.ClearanceUncleared}, nil
	}
	f.feeRepo.getAllFn = func(context.Context, bool) ([]*models.Fee, error) {
		dues := activeFee(1)
		dues.Amount = decimal.NewFromInt(5000)
		conference := activeFee(2)
		conference.Amount = decimal.NewFromInt(3000)
		tshirt := activeFee(3)
		tshirt.Amount = decimal.NewFromInt(2500)
		return []*models.Fee{dues, conference, tshirt}, nil
	}
	f.paymentRepo.paidFeeIDsFn = func(context.Context, int64) (map[int64]bool, error) {
		return map[int64]bool{1: true}, nil
	}
	f.paymentRepo.getByStudentFn = func(context.Context, int64) ([]*models.PaymentWithDetails, error) {
		payments := make([]*models.PaymentWithDetails, 8)
		for i := range payments {
			payments[i] = &models.PaymentWithDetails{Payment: models.Payment{ID: int64(i + 1)}}
		}
		return payments, nil
	}

	resp, err := f.service.Dashboard(ctx, 2)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if resp.ClearanceStatus != models.ClearanceUncleared {
		t.Errorf("clearance status %q", resp.ClearanceStatus)
	}
	if !resp.Summary.TotalPaid.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("total paid %s, want 5000", resp.Summary.TotalPaid)
	}
	if !resp.Summary.TotalOutstanding.Equal(decimal.NewFromInt(5500)) {
		t.Errorf("total outstanding %s, want 5500", resp.Summary.TotalOutstanding)
	}
	if resp.Summary.PaidCount != 1 || resp.Summary.UnpaidCount != 2 {
		t.Errorf("counts %d paid / %d unpaid", resp.Summary.PaidCount, resp.Summary.UnpaidCount)
	}
	if len(resp.RecentPayments) != recentPaymentsLimit {
		t.Errorf("recent payments %d, want %d", len(resp.RecentPayments), recentPaymentsLimit)
	}
}

func TestStudentServiceGetClearance(t *testing.T) {
	ctx := context.Background()

	f := newStudentServiceFixture()
	f.studentRepo.getByIDFn = func(_ context.Context, id int64) (*models.Student, error) {
		return testStudent(id), nil
	}
	f.clearanceRepo.getByStudentFn = func(context.Context, int64) (*models.Clearance, error) {
		return &models.Clearance{StudentID: 2, Status: models.ClearanceCleared}, nil
	}
	f.paymentRepo.getSuccessfulFn = func(context.Context, int64) ([]*models.PaymentWithDetails, error) {
		return []*models.PaymentWithDetails{
			{Payment: models.Payment{ID: 1, Status: models.PaymentSuccess}, FeeTitle: "Departmental Dues"},
		}, nil
	}

	resp, err := f.service.GetClearance(ctx, 2)
	if err != nil {
		t.Fatalf("GetClearance returned error: %v", err)
	}
	if resp.Status != models.ClearanceCleared {
		t.Errorf("status %q, want cleared", resp.Status)
	}
	if len(resp.Payments) != 1 || resp.Payments[0].FeeTitle != "Departmental Dues" {
		t.Errorf("certificate payments %+v", resp.Payments)
	}
	if resp.Student.MatricNumber != "CSC/2021/001" {
		t.Errorf("certificate identity %+v", resp.Student)
	}
}

func TestStudentServiceUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and persists the mutable fields", func(t *testing.T) {
		f := newStudentServiceFixture()

		var gotName, gotDept, gotLevel string
		f.studentRepo.updateProfileFn = func(_ context.Context, _ int64, fullName, department, level string) error {
			gotName, gotDept, gotLevel = fullName, department, level
			return nil
		}
		f.studentRepo.getByIDFn = func(_ context.Context, id int64) (*models.Student, error) {
			return testStudent(id), nil
		}

		_, err := f.service.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{
			FullName:   "  Ada Obi ",
			Department: " Software Engineering ",
			Level:      " 400 ",
		})
		if err != nil {
			t.Fatalf("UpdateProfile returned error: %v", err)
		}
		if gotName != "Ada Obi" || gotDept != "Software Engineering" || gotLevel != "400" {
			t.Errorf("persisted %q / %q / %q", gotName, gotDept, gotLevel)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		f := newStudentServiceFixture()

		_, err := f.service.UpdateProfile(ctx, 2, &dto.UpdateProfileRequest{FullName: "   "})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("got %v, want validation failure", err)
		}
	})
}

func TestStudentServiceNotifications(t *testing.T) {
	ctx := context.Background()

	f := newStudentServiceFixture()
	f.notifRepo.getByStudentFn = func(_ context.Context, _ int64, unreadOnly bool) ([]*models.Notification, error) {
		if unreadOnly {
			t.Error("full listing asked for unread only")
		}
		return []*models.Notification{
			{ID: 1, Title: "Payment Successful", IsRead: false},
			{ID: 2, Title: "Welcome to the Fee Clearance Portal", IsRead: true},
		}, nil
	}
	f.notifRepo.countUnreadFn = func(context.Context, int64) (int, error) { return 1, nil }

	notifications, unread, err := f.service.GetNotifications(ctx, 2, false)
	if err != nil {
		t.Fatalf("GetNotifications returned error: %v", err)
	}
	if len(notifications) != 2 || unread != 1 {
		t.Errorf("got %d notifications with %d unread", len(notifications), unread)
	}

	t.Run("mark read passes the owner guard through", func(t *testing.T) {
		f := newStudentServiceFixture()
		f.notifRepo.markReadFn = func(_ context.Context, id, studentID int64) error {
			if id != 5 || studentID != 2 {
				t.Errorf("MarkRead called with (%d, %d)", id, studentID)
			}
			return apperrors.ErrNotificationNotFound
		}

		err := f.service.MarkNotificationRead(ctx, 2, 5)
		if !errors.Is(err, apperrors.ErrNotificationNotFound) {
			t.Errorf("got %v, want ErrNotificationNotFound", err)
		}
	})
}
