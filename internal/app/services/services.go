package services

import (
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/db"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
	"github.com/nacosng/feeclearance/internal/pkg/email"
)

// Services holds all the service instances
type Services struct {
	AuthService     *AuthService
	FeeService      *FeeService
	PaymentService  *PaymentService
	StudentService  *StudentService
	ReportService   *ReportService
	SettingsService *SettingsService
}

// NewServices initializes all services
func NewServices(
	repos *repositories.Repositories,
	database *db.PostgresDB,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	gateway PaymentGateway,
	callbackURL string,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.StudentRepository,
			repos.AdminRepository,
			repos.ClearanceRepository,
			repos.NotificationRepository,
			emailService,
			jwtService,
			database,
			logger,
		),
		FeeService: NewFeeService(repos.FeeRepository, repos.PaymentRepository, logger),
		PaymentService: NewPaymentService(
			repos.PaymentRepository,
			repos.FeeRepository,
			repos.StudentRepository,
			repos.ClearanceRepository,
			repos.NotificationRepository,
			gateway,
			emailService,
			callbackURL,
			logger,
		),
		StudentService: NewStudentService(
			repos.StudentRepository,
			repos.FeeRepository,
			repos.PaymentRepository,
			repos.ClearanceRepository,
			repos.NotificationRepository,
			logger,
		),
		ReportService: NewReportService(
			repos.StudentRepository,
			repos.PaymentRepository,
			repos.ClearanceRepository,
			logger,
		),
		SettingsService: NewSettingsService(repos.SettingRepository, logger),
	}
}
