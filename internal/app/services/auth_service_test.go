package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
)

type authServiceFixture struct {
	studentRepo   *mockStudentRepo
	adminRepo     *mockAdminRepo
	clearanceRepo *mockClearanceRepo
	notifRepo     *mockNotificationRepo
	emails        *mockEmailService
	service       *AuthService
}

func newAuthServiceFixture() *authServiceFixture {
	f := &authServiceFixture{
		studentRepo:   &mockStudentRepo{},
		adminRepo:     &mockAdminRepo{},
		clearanceRepo: &mockClearanceRepo{},
		notifRepo:     &mockNotificationRepo{},
		emails:        &mockEmailService{},
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:  "test-secret-key",
		SessionExp: time.Hour,
		Issuer:     "feeclearance-test",
	})
	f.service = NewAuthService(
		f.studentRepo,
		f.adminRepo,
		f.clearanceRepo,
		f.notifRepo,
		f.emails,
		jwtService,
		&mockTxRunner{},
		zerolog.Nop(),
	)
	return f
}

func (f *authServiceFixture) allowRegistration() {
	f.studentRepo.emailExistsFn = func(context.Context, string) (bool, error) { return false, nil }
	f.studentRepo.matricExistsFn = func(context.Context, string) (bool, error) { return false, nil }
	f.studentRepo.createFn = func(_ context.Context, _ pgx.Tx, student *models.Student) error {
		student.ID = 42
		return nil
	}
	f.clearanceRepo.createFn = func(context.Context, pgx.Tx, int64) error { return nil }
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes identity and sends verification email", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.allowRegistration()

		var created *models.Student
		f.studentRepo.createFn = func(_ context.Context, _ pgx.Tx, student *models.Student) error {
			student.ID = 42
			created = student
			return nil
		}

		student, emailSent, err := f.service.Register(ctx, " Ada Obi ", "csc/2021/001", " Ada@Example.COM ", "secret1", "Computer Science", "300")
		if err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
		if !emailSent {
			t.Error("emailSent = false, want true")
		}
		if student.Email != "ada@example.com" {
			t.Errorf("email %q was not lower-cased", student.Email)
		}
		if student.MatricNumber != "CSC/2021/001" {
			t.Errorf("matric %q was not upper-cased", student.MatricNumber)
		}
		if created.EmailVerificationToken == nil || *created.EmailVerificationToken == "" {
			t.Error("no verification token was generated")
		}
		if created.VerificationExpiresAt == nil || !created.VerificationExpiresAt.After(time.Now()) {
			t.Error("verification token has no future expiry")
		}
		if len(f.emails.verificationSent) != 1 {
			t.Errorf("verification emails sent: %v", f.emails.verificationSent)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		f := newAuthServiceFixture()

		_, _, err := f.service.Register(ctx, "Ada Obi", "CSC/2021/001", "ada@example.com", "abc", "Computer Science", "300")
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("got %v, want validation failure", err)
		}
	})

	t.Run("rejects malformed matric number", func(t *testing.T) {
		f := newAuthServiceFixture()

		_, _, err := f.service.Register(ctx, "Ada Obi", "no spaces allowed", "ada@example.com", "secret1", "Computer Science", "300")
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("got %v, want validation failure", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.emailExistsFn = func(context.Context, string) (bool, error) { return true, nil }

		_, _, err := f.service.Register(ctx, "Ada Obi", "CSC/2021/001", "ada@example.com", "secret1", "Computer Science", "300")
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			t.Errorf("got %v, want ErrEmailAlreadyExists", err)
		}
	})

	t.Run("maps matric unique violation raised inside the transaction", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.allowRegistration()
		f.studentRepo.createFn = func(context.Context, pgx.Tx, *models.Student) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "students_matric_number_key"}
		}

		_, _, err := f.service.Register(ctx, "Ada Obi", "CSC/2021/001", "ada@example.com", "secret1", "Computer Science", "300")
		if !errors.Is(err, apperrors.ErrMatricAlreadyExists) {
			t.Errorf("got %v, want ErrMatricAlreadyExists", err)
		}
	})

	t.Run("registration stands when the email bounces", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.allowRegistration()
		f.emails.sendErr = errors.New("smtp refused")

		student, emailSent, err := f.service.Register(ctx, "Ada Obi", "CSC/2021/001", "ada@example.com", "secret1", "Computer Science", "300")
		if err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
		if emailSent {
			t.Error("emailSent = true, want false")
		}
		if student.ID != 42 {
			t.Errorf("student ID %d, want 42", student.ID)
		}
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	verifiedStudent := func() *models.Student {
		s := testStudent(2)
		s.PasswordHash = hash
		return s
	}

	t.Run("student login issues a session token", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByIdentifierFn = func(context.Context, string) (*models.Student, error) {
			return verifiedStudent(), nil
		}

		result, err := f.service.Login(ctx, "CSC/2021/001", "correct horse", false)
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if result.Token == "" {
			t.Error("no session token issued")
		}
		if result.Principal.Role() != auth.RoleStudent {
			t.Errorf("principal role %q, want student", result.Principal.Role())
		}
		if result.Matric != "CSC/2021/001" {
			t.Errorf("matric %q in login result", result.Matric)
		}
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByIdentifierFn = func(context.Context, string) (*models.Student, error) {
			return verifiedStudent(), nil
		}

		_, err := f.service.Login(ctx, "ada@example.com", "wrong", false)
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown identifier is invalid credentials, not a not-found leak", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByIdentifierFn = func(context.Context, string) (*models.Student, error) {
			return nil, apperrors.ErrStudentNotFound
		}

		_, err := f.service.Login(ctx, "ghost@example.com", "whatever", false)
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unverified email cannot log in", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByIdentifierFn = func(context.Context, string) (*models.Student, error) {
			s := verifiedStudent()
			s.EmailVerified = false
			return s, nil
		}

		_, err := f.service.Login(ctx, "ada@example.com", "correct horse", false)
		if !errors.Is(err, apperrors.ErrEmailNotVerified) {
			t.Errorf("got %v, want ErrEmailNotVerified", err)
		}
	})

	t.Run("admin login uses the admin table", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.adminRepo.getByEmailFn = func(context.Context, string) (*models.Admin, error) {
			return &models.Admin{ID: 1, FullName: "Portal Admin", Email: "admin@nacosng.org", PasswordHash: hash}, nil
		}

		result, err := f.service.Login(ctx, "admin@nacosng.org", "correct horse", true)
		if err != nil {
			t.Fatalf("admin login returned error: %v", err)
		}
		if result.Principal.Role() != auth.RoleAdmin {
			t.Errorf("principal role %q, want admin", result.Principal.Role())
		}
	})
}

func TestAuthServiceVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes token and records welcome notification", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.consumeVerifyFn = func(context.Context, string) (*models.Student, error) {
			s := testStudent(2)
			s.EmailVerified = true
			return s, nil
		}

		var notified *models.Notification
		f.notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
			notified = n
			return nil
		}

		student, err := f.service.VerifyEmail(ctx, "sometoken")
		if err != nil {
			t.Fatalf("VerifyEmail returned error: %v", err)
		}
		if !student.EmailVerified {
			t.Error("student not marked verified")
		}
		if notified == nil {
			t.Error("no welcome notification created")
		}
	})

	t.Run("empty token is rejected without a lookup", func(t *testing.T) {
		f := newAuthServiceFixture()

		_, err := f.service.VerifyEmail(ctx, "")
		if !errors.Is(err, apperrors.ErrVerificationTokenInvalid) {
			t.Errorf("got %v, want ErrVerificationTokenInvalid", err)
		}
	})
}

func TestAuthServiceForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email succeeds quietly", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByEmailFn = func(context.Context, string) (*models.Student, error) {
			return nil, apperrors.ErrStudentNotFound
		}

		if err := f.service.ForgotPassword(ctx, "ghost@example.com"); err != nil {
			t.Errorf("ForgotPassword leaked account existence: %v", err)
		}
		if len(f.emails.resetSent) != 0 {
			t.Errorf("reset emails sent for unknown account: %v", f.emails.resetSent)
		}
	})

	t.Run("stores reset token and emails the student", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByEmailFn = func(context.Context, string) (*models.Student, error) {
			return testStudent(2), nil
		}

		var storedToken string
		var storedExpiry time.Time
		f.studentRepo.setResetTokenFn = func(_ context.Context, _ int64, token string, expiresAt time.Time) error {
			storedToken = token
			storedExpiry = expiresAt
			return nil
		}

		if err := f.service.ForgotPassword(ctx, "ada@example.com"); err != nil {
			t.Fatalf("ForgotPassword returned error: %v", err)
		}
		if storedToken == "" {
			t.Error("no reset token stored")
		}
		if !storedExpiry.After(time.Now()) {
			t.Error("reset token has no future expiry")
		}
		if len(f.emails.resetSent) != 1 {
			t.Errorf("reset emails sent: %v", f.emails.resetSent)
		}
	})

	t.Run("email delivery failure surfaces as upstream error", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.getByEmailFn = func(context.Context, string) (*models.Student, error) {
			return testStudent(2), nil
		}
		f.studentRepo.setResetTokenFn = func(context.Context, int64, string, time.Time) error { return nil }
		f.emails.sendErr = errors.New("smtp refused")

		err := f.service.ForgotPassword(ctx, "ada@example.com")
		if !errors.Is(err, apperrors.ErrUpstreamFailure) {
			t.Errorf("got %v, want upstream failure", err)
		}
	})
}

func TestAuthServiceResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the password via token", func(t *testing.T) {
		f := newAuthServiceFixture()

		var consumedToken, newHash string
		f.studentRepo.consumeResetFn = func(_ context.Context, token, passwordHash string) (*models.Student, error) {
			consumedToken = token
			newHash = passwordHash
			return testStudent(2), nil
		}

		if err := f.service.ResetPassword(ctx, "resettoken", "newsecret"); err != nil {
			t.Fatalf("ResetPassword returned error: %v", err)
		}
		if consumedToken != "resettoken" {
			t.Errorf("consumed token %q", consumedToken)
		}
		if !auth.CheckPassword(newHash, "newsecret") {
			t.Error("stored hash does not match the new password")
		}
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		f := newAuthServiceFixture()

		err := f.service.ResetPassword(ctx, "", "newsecret")
		if !errors.Is(err, apperrors.ErrPasswordResetTokenInvalid) {
			t.Errorf("got %v, want ErrPasswordResetTokenInvalid", err)
		}
	})

	t.Run("short replacement password is rejected", func(t *testing.T) {
		f := newAuthServiceFixture()

		err := f.service.ResetPassword(ctx, "resettoken", "abc")
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("got %v, want validation failure", err)
		}
	})

	t.Run("expired or unknown token passes the repo error through", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.studentRepo.consumeResetFn = func(context.Context, string, string) (*models.Student, error) {
			return nil, apperrors.ErrPasswordResetTokenInvalid
		}

		err := f.service.ResetPassword(ctx, "stale", "newsecret")
		if !errors.Is(err, apperrors.ErrPasswordResetTokenInvalid) {
			t.Errorf("got %v, want ErrPasswordResetTokenInvalid", err)
		}
	})
}
