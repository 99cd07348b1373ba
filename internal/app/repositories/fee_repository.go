package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
	"github.com/nacosng/feeclearance/internal/pkg/dberrors"
)

// IFeeRepository defines the interface for fee-related database operations
type IFeeRepository interface {
	Create(ctx context.Context, fee *models.Fee) error
	GetByID(ctx context.Context, id int64) (*models.Fee, error)
	GetAll(ctx context.Context, includeInactive bool) ([]*models.Fee, error)
	Update(ctx context.Context, fee *models.Fee) error
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// FeeRepository handles database operations for fees
type FeeRepository struct {
	db *pgxpool.Pool
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{
		db: db,
	}
}

// Create inserts a new fee
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	query := `
		INSERT INTO fees (title, amount, session, category, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		fee.Title,
		fee.Amount,
		fee.Session,
		fee.Category,
		fee.Description,
		fee.IsActive,
	).Scan(&fee.ID, &fee.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating fee: %w", err)
	}

	return nil
}

// GetByID retrieves a fee by ID
func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*models.Fee, error) {
	query := `
		SELECT id, title, amount, session, category, description, is_active, created_at
		FROM fees
		WHERE id = $1
	`

	var fee models.Fee
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fee.ID,
		&fee.Title,
		&fee.Amount,
		&fee.Session,
		&fee.Category,
		&fee.Description,
		&fee.IsActive,
		&fee.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving fee: %w", err)
	}

	return &fee, nil
}

// GetAll retrieves fees, newest first. Students only see active fees; the
// admin catalog passes includeInactive.
func (r *FeeRepository) GetAll(ctx context.Context, includeInactive bool) ([]*models.Fee, error) {
	query := `
		SELECT id, title, amount, session, category, description, is_active, created_at
		FROM fees
	`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing fees: %w", err)
	}
	defer rows.Close()

	var fees []*models.Fee
	for rows.Next() {
		var fee models.Fee
		if err := rows.Scan(
			&fee.ID,
			&fee.Title,
			&fee.Amount,
			&fee.Session,
			&fee.Category,
			&fee.Description,
			&fee.IsActive,
			&fee.CreatedAt,
		); err != nil {
			return nil, err
		}
		fees = append(fees, &fee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fees, nil
}

// Update persists all mutable fields of a fee
func (r *FeeRepository) Update(ctx context.Context, fee *models.Fee) error {
	query := `
		UPDATE fees
		SET title = $2, amount = $3, session = $4, category = $5, description = $6, is_active = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		fee.ID,
		fee.Title,
		fee.Amount,
		fee.Session,
		fee.Category,
		fee.Description,
		fee.IsActive,
	)
	if err != nil {
		return fmt.Errorf("error updating fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}

	return nil
}

// Delete removes a fee. The foreign key from payments is RESTRICT, so a fee
// with payment history surfaces a violation the caller downgrades to a
// deactivation.
func (r *FeeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fees WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return err
		}
		return fmt.Errorf("error deleting fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}

	return nil
}

// Deactivate hides a fee from the student catalog without touching history
func (r *FeeRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE fees SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}

	return nil
}
