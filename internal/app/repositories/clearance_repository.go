package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// IClearanceRepository defines the interface for clearance-related database operations
type IClearanceRepository interface {
	Create(ctx context.Context, tx pgx.Tx, studentID int64) error
	GetByStudent(ctx context.Context, studentID int64) (*models.Clearance, error)
	SetCleared(ctx context.Context, studentID int64) (bool, error)
	CountByStatus(ctx context.Context) (map[models.ClearanceStatus]int, error)
}

// ClearanceRepository handles database operations for clearance records
type ClearanceRepository struct {
	db *pgxpool.Pool
}

// NewClearanceRepository creates a new clearance repository
func NewClearanceRepository(db *pgxpool.Pool) *ClearanceRepository {
	return &ClearanceRepository{
		db: db,
	}
}

// Create inserts an uncleared record for a new student inside the
// registration transaction
func (r *ClearanceRepository) Create(ctx context.Context, tx pgx.Tx, studentID int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO clearance (student_id, status) VALUES ($1, 'uncleared')`,
		studentID,
	)
	if err != nil {
		return fmt.Errorf("error creating clearance record: %w", err)
	}
	return nil
}

// GetByStudent retrieves a student's clearance record
func (r *ClearanceRepository) GetByStudent(ctx context.Context, studentID int64) (*models.Clearance, error) {
	query := `
		SELECT id, student_id, status, created_at, updated_at
		FROM clearance
		WHERE student_id = $1
	`

	var clearance models.Clearance
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&clearance.ID,
		&clearance.StudentID,
		&clearance.Status,
		&clearance.CreatedAt,
		&clearance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving clearance: %w", err)
	}

	return &clearance, nil
}

// SetCleared flips a student's clearance to cleared. The status guard keeps
// the update idempotent; returns whether this call did the flip.
func (r *ClearanceRepository) SetCleared(ctx context.Context, studentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE clearance SET status = 'cleared', updated_at = NOW() WHERE student_id = $1 AND status = 'uncleared'`,
		studentID,
	)
	if err != nil {
		return false, fmt.Errorf("error updating clearance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByStatus returns clearance record counts grouped by status
func (r *ClearanceRepository) CountByStatus(ctx context.Context) (map[models.ClearanceStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM clearance GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting clearance records: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ClearanceStatus]int)
	for rows.Next() {
		var status models.ClearanceStatus
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
