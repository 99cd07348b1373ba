package email

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendPasswordResetEmail(toEmail, toName, token string) error
	SendPaymentConfirmationEmail(toEmail, toName, feeTitle, reference string, amount decimal.Decimal) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendVerificationEmail sends the email verification link to a new student
func (s *EmailServiceImpl) SendVerificationEmail(toEmail, toName, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.BaseURL, token)

	// Without SMTP credentials the portal keeps working; the link is logged
	// so local setups can complete verification by hand.
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("verificationURL", verificationURL).
			Msg("SMTP credentials not configured - verification email not sent")
		return nil
	}

	subject := "Verify Your Email - NACOS Fee Clearance Portal"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #166534;">Welcome to the NACOS Fee Clearance Portal!</h2>
				<p>Hello %s,</p>
				<p>Thank you for registering. To activate your account, please verify your email address by clicking the button below:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #166534; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Verify Email</a>
				</div>

				<p>This verification link will expire in 24 hours.</p>

				<p>If you did not register for an account, please ignore this email.</p>

				<p>Best regards,<br>NACOS Executives</p>
			</div>
		</body>
		</html>
	`, toName, verificationURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - password reset email not sent")
		return nil
	}

	subject := "Reset Your Password - NACOS Fee Clearance Portal"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #166534;">Password Reset Request</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Click the button below to choose a new one:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #166534; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>

				<p>This link will expire in 1 hour.</p>

				<p>If you did not request a password reset, you can safely ignore this email. Your password will not change.</p>

				<p>Best regards,<br>NACOS Executives</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPaymentConfirmationEmail sends a receipt after a successful payment
func (s *EmailServiceImpl) SendPaymentConfirmationEmail(toEmail, toName, feeTitle, reference string, amount decimal.Decimal) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("reference", reference).
			Msg("SMTP credentials not configured - payment confirmation email not sent")
		return nil
	}

	subject := "Payment Confirmation - NACOS Fee Clearance Portal"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #166534;">Payment Received</h2>
				<p>Hello %s,</p>
				<p>Your payment has been confirmed. Here are the details:</p>

				<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
					<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Fee</td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s</strong></td></tr>
					<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Amount</td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>&#8358;%s</strong></td></tr>
					<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Reference</td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s</strong></td></tr>
				</table>

				<p>You can view your payment history and clearance status on the portal.</p>

				<p>Best regards,<br>NACOS Executives</p>
			</div>
		</body>
		</html>
	`, toName, feeTitle, amount.StringFixed(2), reference)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email over plain SMTP with AUTH
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// GenerateToken generates a random hex token for verification and reset links
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
