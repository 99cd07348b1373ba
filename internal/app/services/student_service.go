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
)

const recentPaymentsLimit = 5

// StudentService serves the student-facing surface: dashboard, profile,
// clearance certificate and notifications.
type StudentService struct {
	studentRepo   repositories.IStudentRepository
	feeRepo       repositories.IFeeRepository
	paymentRepo   repositories.IPaymentRepository
	clearanceRepo repositories.IClearanceRepository
	notifRepo     repositories.INotificationRepository
	logger        zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	feeRepo repositories.IFeeRepository,
	paymentRepo repositories.IPaymentRepository,
	clearanceRepo repositories.IClearanceRepository,
	notifRepo repositories.INotificationRepository,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo:   studentRepo,
		feeRepo:       feeRepo,
		paymentRepo:   paymentRepo,
		clearanceRepo: clearanceRepo,
		notifRepo:     notifRepo,
		logger:        logger,
	}
}

func studentInfo(student *models.Student) dto.StudentInfo {
	return dto.StudentInfo{
		ID:           student.ID,
		FullName:     student.FullName,
		MatricNumber: student.MatricNumber,
		Email:        student.Email,
		Department:   student.Department,
		Level:        student.Level,
	}
}

// Dashboard assembles the student landing page: profile, clearance status,
// payment summary over the active fee catalog and recent payment attempts.
func (s *StudentService) Dashboard(ctx context.Context, studentID int64) (*dto.StudentDashboardResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	clearance, err := s.clearanceRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	fees, err := s.feeRepo.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.PaidFeeIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary := dto.PaymentSummary{
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, fee := range fees {
		if paid[fee.ID] {
			summary.TotalPaid = summary.TotalPaid.Add(fee.Amount)
			summary.PaidCount++
		} else {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(fee.Amount)
			summary.UnpaidCount++
		}
	}

	payments, err := s.paymentRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(payments) > recentPaymentsLimit {
		payments = payments[:recentPaymentsLimit]
	}

	recent := make([]models.PaymentWithDetails, 0, len(payments))
	for _, p := range payments {
		recent = append(recent, *p)
	}

	return &dto.StudentDashboardResponse{
		Student:         studentInfo(student),
		ClearanceStatus: clearance.Status,
		Summary:         summary,
		RecentPayments:  recent,
	}, nil
}

// GetPayments lists all of the student's payment attempts
func (s *StudentService) GetPayments(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error) {
	return s.paymentRepo.GetByStudent(ctx, studentID)
}

// GetClearance assembles the clearance certificate view: identity, status
// and the successful payments backing it
func (s *StudentService) GetClearance(ctx context.Context, studentID int64) (*dto.ClearanceResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	clearance, err := s.clearanceRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetSuccessfulByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	paid := make([]models.PaymentWithDetails, 0, len(payments))
	for _, p := range payments {
		paid = append(paid, *p)
	}

	return &dto.ClearanceResponse{
		Student:   studentInfo(student),
		Status:    clearance.Status,
		UpdatedAt: clearance.UpdatedAt,
		Payments:  paid,
	}, nil
}

// GetProfile retrieves the student's own profile
func (s *StudentService) GetProfile(ctx context.Context, studentID int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID)
}

// UpdateProfile updates the mutable profile fields. Email and matric number
// stay fixed after registration.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID int64, req *dto.UpdateProfileRequest) (*models.Student, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("full name cannot be empty")
	}

	err := s.studentRepo.UpdateProfile(ctx, studentID, fullName, strings.TrimSpace(req.Department), strings.TrimSpace(req.Level))
	if err != nil {
		return nil, err
	}

	return s.studentRepo.GetByID(ctx, studentID)
}

// GetNotifications lists the student's notifications
func (s *StudentService) GetNotifications(ctx context.Context, studentID int64, unreadOnly bool) ([]*models.Notification, int, error) {
	notifications, err := s.notifRepo.GetByStudent(ctx, studentID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.notifRepo.CountUnread(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

// MarkNotificationRead marks one of the student's notifications read
func (s *StudentService) MarkNotificationRead(ctx context.Context, studentID, notificationID int64) error {
	return s.notifRepo.MarkRead(ctx, notificationID, studentID)
}

// MarkAllNotificationsRead marks all of the student's notifications read
func (s *StudentService) MarkAllNotificationsRead(ctx context.Context, studentID int64) error {
	return s.notifRepo.MarkAllRead(ctx, studentID)
}
