package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/db"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
	"github.com/nacosng/feeclearance/internal/pkg/dberrors"
	"github.com/nacosng/feeclearance/internal/pkg/email"
)

const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = time.Hour
)

// TxRunner abstracts the transactional boundary so services can be tested
// without a live pool
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// LoginResult carries the session token alongside the authenticated principal
type LoginResult struct {
	Principal auth.Principal
	FullName  string
	Matric    string
	Token     string
}

// AuthService handles registration, login and the token flows
type AuthService struct {
	studentRepo   repositories.IStudentRepository
	adminRepo     repositories.IAdminRepository
	clearanceRepo repositories.IClearanceRepository
	notifRepo     repositories.INotificationRepository
	emailService  email.EmailService
	jwtService    *auth.JWTService
	tx            TxRunner
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	studentRepo repositories.IStudentRepository,
	adminRepo repositories.IAdminRepository,
	clearanceRepo repositories.IClearanceRepository,
	notifRepo repositories.INotificationRepository,
	emailService email.EmailService,
	jwtService *auth.JWTService,
	tx TxRunner,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		studentRepo:   studentRepo,
		adminRepo:     adminRepo,
		clearanceRepo: clearanceRepo,
		notifRepo:     notifRepo,
		emailService:  emailService,
		jwtService:    jwtService,
		tx:            tx,
		logger:        logger,
	}
}

var matricRegex = regexp.MustCompile(`^[A-Z0-9/._-]{4,30}$`)

// validatePassword checks the minimum password requirements
func (s *AuthService) validatePassword(password string) error {
	if len(password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

// validateMatricNumber checks the matric number shape after upper-casing
func (s *AuthService) validateMatricNumber(matric string) error {
	if !matricRegex.MatchString(matric) {
		return apperrors.NewValidationError("matric number format is invalid")
	}
	return nil
}

// Register creates a student account with an uncleared clearance record and
// sends the verification email. Returns whether the email went out so the
// caller can word the response accordingly.
func (s *AuthService) Register(ctx context.Context, fullName, matricNumber, emailAddr, password, department, level string) (*models.Student, bool, error) {
	fullName = strings.TrimSpace(fullName)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	matricNumber = strings.ToUpper(strings.TrimSpace(matricNumber))

	if fullName == "" {
		return nil, false, apperrors.NewValidationError("full name cannot be empty")
	}
	if err := s.validateMatricNumber(matricNumber); err != nil {
		return nil, false, err
	}
	if err := s.validatePassword(password); err != nil {
		return nil, false, err
	}

	// Pre-checks give friendlier errors; the unique constraints below are
	// what actually guarantees no duplicates under concurrent registration.
	if exists, err := s.studentRepo.EmailExists(ctx, emailAddr); err != nil {
		return nil, false, err
	} else if exists {
		return nil, false, apperrors.ErrEmailAlreadyExists
	}
	if exists, err := s.studentRepo.MatricNumberExists(ctx, matricNumber); err != nil {
		return nil, false, err
	} else if exists {
		return nil, false, apperrors.ErrMatricAlreadyExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := email.GenerateToken()
	if err != nil {
		return nil, false, err
	}
	expiresAt := time.Now().Add(verificationTokenTTL)

	student := &models.Student{
		FullName:               fullName,
		MatricNumber:           matricNumber,
		Email:                  emailAddr,
		PasswordHash:           passwordHash,
		Department:             strings.TrimSpace(department),
		Level:                  strings.TrimSpace(level),
		EmailVerificationToken: &token,
		VerificationExpiresAt:  &expiresAt,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentRepo.Create(ctx, tx, student); err != nil {
			return err
		}
		return s.clearanceRepo.Create(ctx, tx, student.ID)
	})
	if err != nil {
		switch {
		case dberrors.IsUniqueConstraintError(err, "students_email_key"):
			return nil, false, apperrors.ErrEmailAlreadyExists
		case dberrors.IsUniqueConstraintError(err, "students_matric_number_key"):
			return nil, false, apperrors.ErrMatricAlreadyExists
		}
		return nil, false, fmt.Errorf("failed to register student: %w", err)
	}

	s.logger.Info().Int64("studentId", student.ID).Str("matricNumber", matricNumber).Msg("Student registered")

	emailSent := true
	if err := s.emailService.SendVerificationEmail(student.Email, student.FullName, token); err != nil {
		// Registration stands even when the email bounces; the student can
		// request a fresh link.
		s.logger.Error().Err(err).Int64("studentId", student.ID).Msg("Failed to send verification email")
		emailSent = false
	}

	return student, emailSent, nil
}

// Login authenticates a student or an admin and issues a session token.
// Students may log in with their email or matric number.
func (s *AuthService) Login(ctx context.Context, identifier, password string, asAdmin bool) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	if asAdmin {
		return s.loginAdmin(ctx, identifier, password)
	}
	return s.loginStudent(ctx, identifier, password)
}

func (s *AuthService) loginStudent(ctx context.Context, identifier, password string) (*LoginResult, error) {
	student, err := s.studentRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !student.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	principal := auth.StudentPrincipal{
		ID:            student.ID,
		Email:         student.Email,
		EmailVerified: student.EmailVerified,
	}

	token, err := s.jwtService.GenerateSessionToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &LoginResult{
		Principal: principal,
		FullName:  student.FullName,
		Matric:    student.MatricNumber,
		Token:     token,
	}, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, identifier, password string) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	principal := auth.AdminPrincipal{
		ID:    admin.ID,
		Email: admin.Email,
	}

	token, err := s.jwtService.GenerateSessionToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &LoginResult{
		Principal: principal,
		FullName:  admin.FullName,
		Token:     token,
	}, nil
}

// VerifyEmail consumes a verification token and activates the account
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.Student, error) {
	if token == "" {
		return nil, apperrors.ErrVerificationTokenInvalid
	}

	student, err := s.studentRepo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", student.ID).Msg("Email verified")

	notification := &models.Notification{
		StudentID: student.ID,
		Title:     "Welcome to the Fee Clearance Portal",
		Message:   "Your email has been verified. You can now pay your fees and track your clearance status.",
		Type:      models.NotificationSuccess,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Int64("studentId", student.ID).Msg("Failed to create welcome notification")
	}

	return student, nil
}

// ForgotPassword starts the reset flow. It succeeds quietly for unknown
// emails so the endpoint cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	student, err := s.studentRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := email.GenerateToken()
	if err != nil {
		return err
	}

	if err := s.studentRepo.SetPasswordResetToken(ctx, student.ID, token, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(student.Email, student.FullName, token); err != nil {
		s.logger.Error().Err(err).Int64("studentId", student.ID).Msg("Failed to send password reset email")
		return apperrors.NewUpstreamError("failed to send password reset email")
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.ErrPasswordResetTokenInvalid
	}
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	student, err := s.studentRepo.ConsumeResetToken(ctx, token, passwordHash)
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentId", student.ID).Msg("Password reset completed")
	return nil
}
