package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// PaymentFilter narrows the admin payment listing
type PaymentFilter struct {
	Status string
	FeeID  int64
	Search string
}

// IPaymentRepository defines the interface for payment-related database operations
type IPaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	HasSuccessfulPayment(ctx context.Context, studentID, feeID int64) (bool, error)
	PaidFeeIDs(ctx context.Context, studentID int64) (map[int64]bool, error)
	MarkSuccess(ctx context.Context, reference string) (*models.Payment, error)
	MarkFailed(ctx context.Context, reference string) (bool, error)
	GetByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error)
	GetSuccessfulByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error)
	GetAllWithDetails(ctx context.Context, filter PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error)
	GetRecent(ctx context.Context, limit int) ([]*models.PaymentWithDetails, error)
	CountByStatus(ctx context.Context) (map[models.PaymentStatus]int, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	RevenueByMonth(ctx context.Context, months int) ([]*models.RevenueByPeriod, error)
	RevenueByDay(ctx context.Context, days int) ([]*models.RevenueByPeriod, error)
}

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a pending payment attempt
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (student_id, fee_id, amount, reference, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		payment.StudentID,
		payment.FeeID,
		payment.Amount,
		payment.Reference,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByReference retrieves a payment by its gateway reference
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	query := `
		SELECT id, student_id, fee_id, amount, reference, status, paid_at, created_at
		FROM payments
		WHERE reference = $1
	`

	var payment models.Payment
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&payment.ID,
		&payment.StudentID,
		&payment.FeeID,
		&payment.Amount,
		&payment.Reference,
		&payment.Status,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}

	return &payment, nil
}

// HasSuccessfulPayment checks whether the student already paid the fee
func (r *PaymentRepository) HasSuccessfulPayment(ctx context.Context, studentID, feeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payments WHERE student_id = $1 AND fee_id = $2 AND status = 'success')`,
		studentID, feeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking payment existence: %w", err)
	}
	return exists, nil
}

// PaidFeeIDs returns the set of fee IDs the student has successfully paid
func (r *PaymentRepository) PaidFeeIDs(ctx context.Context, studentID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT fee_id FROM payments WHERE student_id = $1 AND status = 'success'`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing paid fees: %w", err)
	}
	defer rows.Close()

	paid := make(map[int64]bool)
	for rows.Next() {
		var feeID int64
		if err := rows.Scan(&feeID); err != nil {
			return nil, err
		}
		paid[feeID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return paid, nil
}

// MarkSuccess flips a pending payment to success. The status guard in the
// WHERE clause makes confirmation idempotent under concurrent webhook and
// callback delivery: exactly one caller gets the row back, everyone else
// gets ErrPaymentNotFound.
func (r *PaymentRepository) MarkSuccess(ctx context.Context, reference string) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET status = 'success', paid_at = NOW()
		WHERE reference = $1 AND status = 'pending'
		RETURNING id, student_id, fee_id, amount, reference, status, paid_at, created_at
	`

	var payment models.Payment
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&payment.ID,
		&payment.StudentID,
		&payment.FeeID,
		&payment.Amount,
		&payment.Reference,
		&payment.Status,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error marking payment successful: %w", err)
	}

	return &payment, nil
}

// MarkFailed flips a pending payment to failed. Returns false when the
// payment already reached a terminal state.
func (r *PaymentRepository) MarkFailed(ctx context.Context, reference string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments SET status = 'failed' WHERE reference = $1 AND status = 'pending'`,
		reference,
	)
	if err != nil {
		return false, fmt.Errorf("error marking payment failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const paymentDetailColumns = `p.id, p.student_id, p.fee_id, p.amount, p.reference, p.status, p.paid_at, p.created_at,
	f.title, s.full_name, s.matric_number, s.email`

func scanPaymentDetails(rows pgx.Rows) ([]*models.PaymentWithDetails, error) {
	var payments []*models.PaymentWithDetails
	for rows.Next() {
		var p models.PaymentWithDetails
		if err := rows.Scan(
			&p.ID,
			&p.StudentID,
			&p.FeeID,
			&p.Amount,
			&p.Reference,
			&p.Status,
			&p.PaidAt,
			&p.CreatedAt,
			&p.FeeTitle,
			&p.StudentName,
			&p.StudentMatric,
			&p.StudentEmail,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

// GetByStudent retrieves all payment attempts for a student, newest first
func (r *PaymentRepository) GetByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments p
		JOIN fees f ON f.id = p.fee_id
		JOIN students s ON s.id = p.student_id
		WHERE p.student_id = $1
		ORDER BY p.created_at DESC`, paymentDetailColumns)

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student payments: %w", err)
	}
	defer rows.Close()

	return scanPaymentDetails(rows)
}

// GetSuccessfulByStudent retrieves the successful payments backing a
// clearance certificate
func (r *PaymentRepository) GetSuccessfulByStudent(ctx context.Context, studentID int64) ([]*models.PaymentWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments p
		JOIN fees f ON f.id = p.fee_id
		JOIN students s ON s.id = p.student_id
		WHERE p.student_id = $1 AND p.status = 'success'
		ORDER BY p.paid_at DESC`, paymentDetailColumns)

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing successful payments: %w", err)
	}
	defer rows.Close()

	return scanPaymentDetails(rows)
}

// GetAllWithDetails retrieves a filtered page of payments for the admin
// listing and CSV export
func (r *PaymentRepository) GetAllWithDetails(ctx context.Context, filter PaymentFilter, offset uint64, limit int) ([]*models.PaymentWithDetails, int, error) {
	base := r.sq.Select().
		From("payments p").
		Join("fees f ON f.id = p.fee_id").
		Join("students s ON s.id = p.student_id")

	if filter.Status != "" {
		base = base.Where(squirrel.Eq{"p.status": filter.Status})
	}
	if filter.FeeID > 0 {
		base = base.Where(squirrel.Eq{"p.fee_id": filter.FeeID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"s.full_name": pattern},
			squirrel.ILike{"s.matric_number": pattern},
			squirrel.ILike{"p.reference": pattern},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building payment count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting payments: %w", err)
	}

	listBuilder := base.Columns(paymentDetailColumns).OrderBy("p.created_at DESC")
	if limit > 0 {
		listBuilder = listBuilder.Offset(offset).Limit(uint64(limit))
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building payment list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	payments, err := scanPaymentDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// GetRecent retrieves the most recent payment attempts across all students
func (r *PaymentRepository) GetRecent(ctx context.Context, limit int) ([]*models.PaymentWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments p
		JOIN fees f ON f.id = p.fee_id
		JOIN students s ON s.id = p.student_id
		ORDER BY p.created_at DESC
		LIMIT $1`, paymentDetailColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent payments: %w", err)
	}
	defer rows.Close()

	return scanPaymentDetails(rows)
}

// CountByStatus returns payment counts grouped by status
func (r *PaymentRepository) CountByStatus(ctx context.Context) (map[models.PaymentStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM payments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting payments by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.PaymentStatus]int)
	for rows.Next() {
		var status models.PaymentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// TotalRevenue sums all successful payment amounts
func (r *PaymentRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'success'`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing revenue: %w", err)
	}
	return total, nil
}

// RevenueByMonth returns monthly revenue buckets for the last N months
func (r *PaymentRepository) RevenueByMonth(ctx context.Context, months int) ([]*models.RevenueByPeriod, error) {
	query := `
		SELECT TO_CHAR(paid_at, 'YYYY-MM') AS period, SUM(amount), COUNT(*)
		FROM payments
		WHERE status = 'success' AND paid_at >= NOW() - ($1 || ' months')::INTERVAL
		GROUP BY period
		ORDER BY period
	`
	return r.revenueBuckets(ctx, query, months)
}

// RevenueByDay returns daily revenue buckets for the last N days
func (r *PaymentRepository) RevenueByDay(ctx context.Context, days int) ([]*models.RevenueByPeriod, error) {
	query := `
		SELECT TO_CHAR(paid_at, 'YYYY-MM-DD') AS period, SUM(amount), COUNT(*)
		FROM payments
		WHERE status = 'success' AND paid_at >= NOW() - ($1 || ' days')::INTERVAL
		GROUP BY period
		ORDER BY period
	`
	return r.revenueBuckets(ctx, query, days)
}

func (r *PaymentRepository) revenueBuckets(ctx context.Context, query string, arg int) ([]*models.RevenueByPeriod, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error aggregating revenue: %w", err)
	}
	defer rows.Close()

	var buckets []*models.RevenueByPeriod
	for rows.Next() {
		var b models.RevenueByPeriod
		if err := rows.Scan(&b.Period, &b.Revenue, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buckets, nil
}
