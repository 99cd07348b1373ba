package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/nacosng/feeclearance/internal/app/controllers"
	appMigrations "github.com/nacosng/feeclearance/internal/app/migrations"
	appRepos "github.com/nacosng/feeclearance/internal/app/repositories"
	appRoutes "github.com/nacosng/feeclearance/internal/app/routes"
	appServices "github.com/nacosng/feeclearance/internal/app/services"
	"github.com/nacosng/feeclearance/internal/config"
	"github.com/nacosng/feeclearance/internal/db"
	appMiddleware "github.com/nacosng/feeclearance/internal/middleware"
	pkgAuth "github.com/nacosng/feeclearance/internal/pkg/auth"
	"github.com/nacosng/feeclearance/internal/pkg/email"
	"github.com/nacosng/feeclearance/internal/pkg/helpers"
	"github.com/nacosng/feeclearance/internal/pkg/logger"
	"github.com/nacosng/feeclearance/internal/pkg/paystack"
	"github.com/nacosng/feeclearance/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	FeeController     *appControllers.FeeController
	PaymentController *appControllers.PaymentController
	StudentController *appControllers.StudentController
	AdminController   *appControllers.AdminController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin and settings.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), database.Pool, cfg, lgr); err != nil {
		// Seeding errors are logged but never block startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:  cfg.JWT.Secret,
		SessionExp: helpers.ParseDuration(cfg.JWT.SessionExpiration, 168*time.Hour),
		Issuer:     cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	gateway := paystack.NewClient(
		cfg.Paystack.SecretKey,
		cfg.Paystack.BaseURL,
		helpers.ParseDuration(cfg.Paystack.Timeout, 15*time.Second),
	)

	// Paystack redirects the student here after checkout. The browser carries
	// the session cookie, so the verify endpoint can settle the payment.
	callbackURL := strings.TrimSuffix(cfg.Server.BaseURL, "/") + "/api/payments/verify"

	deps.Services = appServices.NewServices(deps.Repos, database, deps.JWTService, emailService, gateway, callbackURL, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, deps.JWTService, cfg.IsProduction(), lgr)
	deps.FeeController = appControllers.NewFeeController(deps.Services.FeeService, lgr)
	deps.PaymentController = appControllers.NewPaymentController(deps.Services.PaymentService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.Services.ReportService, deps.Services.SettingsService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.FeeController,
		deps.PaymentController,
		deps.StudentController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
