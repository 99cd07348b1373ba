package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/db"
	"github.com/nacosng/feeclearance/internal/pkg/paystack"
)

// Hand-rolled mocks. Each embeds its interface so only the methods a test
// cares about need stubbing; calling an unstubbed method panics, which is
// exactly what we want in a test.

type mockStudentRepo struct {
	repositories.IStudentRepository
	createFn             func(ctx context.Context, tx pgx.Tx, student *models.Student) error
	getByIDFn            func(ctx context.Context, id int64) (*models.Student, error)
	getByEmailFn         func(ctx context.Context, email string) (*models.Student, error)
	getByIdentifierFn    func(ctx context.Context, identifier string) (*models.Student, error)
	emailExistsFn        func(ctx context.Context, email string) (bool, error)
	matricExistsFn       func(ctx context.Context, matric string) (bool, error)
	consumeVerifyFn      func(ctx context.Context, token string) (*models.Student, error)
	setResetTokenFn      func(ctx context.Context, id int64, token string, expiresAt time.Time) error
	consumeResetFn       func(ctx context.Context, token, hash string) (*models.Student, error)
	updateProfileFn      func(ctx context.Context, id int64, fullName, department, level string) error
	countFn              func(ctx context.Context) (int, error)
	departmentStatsFn    func(ctx context.Context) ([]*models.DepartmentStats, error)
}

func (m *mockStudentRepo) Create(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	return m.createFn(ctx, tx, student)
}
func (m *mockStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockStudentRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	return m.getByIdentifierFn(ctx, identifier)
}
func (m *mockStudentRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExistsFn(ctx, email)
}
func (m *mockStudentRepo) MatricNumberExists(ctx context.Context, matric string) (bool, error) {
	return m.matricExistsFn(ctx, matric)
}
func (m *mockStudentRepo) ConsumeVerificationToken(ctx context.Context, token string) (*models.Student, error) {
	return m.consumeVerifyFn(ctx, token)
}
func (m *mockStudentRepo) SetPasswordResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return m.setResetTokenFn(ctx, id, token, expiresAt)
}
func (m *mockStudentRepo) ConsumeResetToken(ctx context.Context, token, hash string) (*models.Student, error) {
	return m.consumeResetFn(ctx, token, hash)
}
func (m *mockStudentRepo) UpdateProfile(ctx context.Context, id int64, fullName, department, level string) error {
	return m.updateProfileFn(ctx, id, fullName, department, level)
}
func (m *mockStudentRepo) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}
func (m *mockStudentRepo) DepartmentStats(ctx context.Context) ([]*models.DepartmentStats, error) {
	return m.departmentStatsFn(ctx)
}

type mockAdminRepo struct {
	repositories.IAdminRepository
	getByEmailFn func(ctx context.Context, email string) (*models.Admin, error)
}

func (m *mockAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return m.getByEmailFn(ctx, email)
}

type mockFeeRepo struct {
	repositories.IFeeRepository
	getByIDFn    func(ctx context.Context, id int64) (*models.Fee, error)
	getAllFn     func(ctx context.Context, includeInactive bool) ([]*models.Fee, error)
	createFn     func(ctx context.Context, fee *models.Fee) error
	updateFn     func(ctx context.Context, fee *models.Fee) error
	deleteFn     func(ctx context.Context, id int64) error
	deactivateFn func(ctx context.Context, id int64) error
}

func (m *mockFeeRepo) GetByID(ctx context.Context, id int64) (*models.Fee, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockFeeRepo) GetAll(ctx context.Context, includeInactive bool) ([]*models.Fee, error) {
	return m.getAllFn(ctx, includeInactive)
}
func (m *mockFeeRepo) Create(ctx context.Context, fee *models.Fee) error {
	return m.createFn(ctx, fee)
}
func (m *mockFeeRepo) Update(ctx context.Context, fee *models.Fee) error {
	return m.updateFn(ctx, fee)
}
func (m *mockFeeRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}
func (m *mockFeeRepo) Deactivate(ctx context.Context, id int64) error {
	return m.deactivateFn(ctx, id)
}

type mockPaymentRepo struct {
	repositories.IPaymentRepository
	createFn         func(ctx context.Context, payment *models.Payment) error
	getByReferenceFn func(ctx context.Context, reference string) (*models.Payment, error)
	hasSuccessFn     func(ctx context.Context, studentID, feeID int64) (bool, error)
	paidFeeIDsFn     func(ctx context.Context, studentID int64) (map[int64]bool, error)
	markSuccessFn    func(ctx context.Context, reference string) (*models.Payment, error)
	markFailedFn     func(ctx context.Context, reference string) (bool, error)
	getByStudentFn   func(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error)
	getSuccessfulFn  func(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error)
	totalRevenueFn   func(ctx context.Context) (decimal.Decimal, error)
	countByStatusFn  func(ctx context.Context) (map[models.PaymentStatus]int, error)
	getRecentFn      func(ctx context.Context, limit int) ([]*models.PaymentWithDetails, error)
	revenueMonthFn   func(ctx context.Context, months int) ([]*models.RevenueByPeriod, error)
	revenueDayFn     func(ctx context.Context, days int) ([]*models.RevenueByPeriod, error)
	getAllDetailsFn  func(ctx context.Context, filter repositories.PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return m.createFn(ctx, payment)
}
func (m *mockPaymentRepo) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	return m.getByReferenceFn(ctx, reference)
}
func (m *mockPaymentRepo) HasSuccessfulPayment(ctx context.Context, studentID, feeID int64) (bool, error) {
	return m.hasSuccessFn(ctx, studentID, feeID)
}
func (m *mockPaymentRepo) PaidFeeIDs(ctx context.Context, studentID int64) (map[int64]bool, error) {
	return m.paidFeeIDsFn(ctx, studentID)
}
func (m *mockPaymentRepo) MarkSuccess(ctx context.Context, reference string) (*models.Payment, error) {
	return m.markSuccessFn(ctx, reference)
}
func (m *mockPaymentRepo) MarkFailed(ctx context.Context, reference string) (bool, error) {
	return m.markFailedFn(ctx, reference)
}
func (m *mockPaymentRepo) GetByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error) {
	return m.getByStudentFn(ctx, studentID)
}
func (m *mockPaymentRepo) GetSuccessfulByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error) {
	return m.getSuccessfulFn(ctx, studentID)
}
func (m *mockPaymentRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return m.totalRevenueFn(ctx)
}
func (m *mockPaymentRepo) CountByStatus(ctx context.Context) (map[models.PaymentStatus]int, error) {
	return m.countByStatusFn(ctx)
}
func (m *mockPaymentRepo) GetRecent(ctx context.Context, limit int) ([]*models.PaymentWithDetails, error) {
	return m.getRecentFn(ctx, limit)
}
func (m *mockPaymentRepo) RevenueByMonth(ctx context.Context, months int) ([]*models.RevenueByPeriod, error) {
	return m.revenueMonthFn(ctx, months)
}
func (m *mockPaymentRepo) RevenueByDay(ctx context.Context, days int) ([]*models.RevenueByPeriod, error) {
	return m.revenueDayFn(ctx, days)
}
func (m *mockPaymentRepo) GetAllWithDetails(ctx context.Context, filter repositories.PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error) {
	return m.getAllDetailsFn(ctx, filter, offset, limit)
}

type mockClearanceRepo struct {
	repositories.IClearanceRepository
	createFn        func(ctx context.Context, tx pgx.Tx, studentID int64) error
	getByStudentFn  func(ctx context.Context, studentID int64) (*models.Clearance, error)
	setClearedFn    func(ctx context.Context, studentID int64) (bool, error)
	countByStatusFn func(ctx context.Context) (map[models.ClearanceStatus]int, error)
}

func (m *mockClearanceRepo) Create(ctx context.Context, tx pgx.Tx, studentID int64) error {
	return m.createFn(ctx, tx, studentID)
}
func (m *mockClearanceRepo) GetByStudent(ctx context.Context, studentID int64) (*models.Clearance, error) {
	return m.getByStudentFn(ctx, studentID)
}
func (m *mockClearanceRepo) SetCleared(ctx context.Context, studentID int64) (bool, error) {
	return m.setClearedFn(ctx, studentID)
}
func (m *mockClearanceRepo) CountByStatus(ctx context.Context) (map[models.ClearanceStatus]int, error) {
	return m.countByStatusFn(ctx)
}

type mockNotificationRepo struct {
	repositories.INotificationRepository
	createFn       func(ctx context.Context, n *models.Notification) error
	getByStudentFn func(ctx context.Context, studentID int64, unreadOnly bool) ([]*models.Notification, error)
	countUnreadFn  func(ctx context.Context, studentID int64) (int, error)
	markReadFn     func(ctx context.Context, id, studentID int64) error
	markAllReadFn  func(ctx context.Context, studentID int64) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	return nil
}
func (m *mockNotificationRepo) GetByStudent(ctx context.Context, studentID int64, unreadOnly bool) ([]*models.Notification, error) {
	return m.getByStudentFn(ctx, studentID, unreadOnly)
}
func (m *mockNotificationRepo) CountUnread(ctx context.Context, studentID int64) (int, error) {
	return m.countUnreadFn(ctx, studentID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, studentID int64) error {
	return m.markReadFn(ctx, id, studentID)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, studentID int64) error {
	return m.markAllReadFn(ctx, studentID)
}

type mockEmailService struct {
	verificationSent []string
	resetSent        []string
	receiptsSent     []string
	sendErr          error
}

func (m *mockEmailService) SendVerificationEmail(toEmail, toName, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.verificationSent = append(m.verificationSent, toEmail)
	return nil
}
func (m *mockEmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resetSent = append(m.resetSent, toEmail)
	return nil
}
func (m *mockEmailService) SendPaymentConfirmationEmail(toEmail, toName, feeTitle, reference string, amount decimal.Decimal) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.receiptsSent = append(m.receiptsSent, reference)
	return nil
}

type mockGateway struct {
	initializeFn func(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]string) (*paystack.InitializeResponse, error)
	verifyFn     func(ctx context.Context, reference string) (*paystack.VerifyResponse, error)
	validSig     bool
}

func (m *mockGateway) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]string) (*paystack.InitializeResponse, error) {
	return m.initializeFn(ctx, email, amount, reference, callbackURL, metadata)
}
func (m *mockGateway) VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResponse, error) {
	return m.verifyFn(ctx, reference)
}
func (m *mockGateway) ValidateWebhookSignature(body []byte, signature string) bool {
	return m.validSig
}

// mockTxRunner runs the transactional function directly with a nil tx; the
// repo mocks ignore the tx argument.
type mockTxRunner struct {
	err error
}

func (m *mockTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx, nil)
}
