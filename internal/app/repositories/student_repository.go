package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// IStudentRepository defines the interface for student-related database operations
type IStudentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MatricNumberExists(ctx context.Context, matricNumber string) (bool, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*models.Student, error)
	SetVerificationToken(ctx context.Context, studentID int64, token string, expiresAt time.Time) error
	SetPasswordResetToken(ctx context.Context, studentID int64, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (*models.Student, error)
	UpdateProfile(ctx context.Context, id int64, fullName, department, level string) error
	Count(ctx context.Context) (int, error)
	GetAllWithClearance(ctx context.Context, search string, offset uint64, limit int) ([]*models.StudentWithClearance, int, error)
	DepartmentStats(ctx context.Context) ([]*models.DepartmentStats, error)
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentColumns = `id, full_name, matric_number, email, password_hash, department, level,
	email_verified, email_verification_token, email_verification_expires,
	password_reset_token, password_reset_expires, created_at`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.FullName,
		&student.MatricNumber,
		&student.Email,
		&student.PasswordHash,
		&student.Department,
		&student.Level,
		&student.EmailVerified,
		&student.EmailVerificationToken,
		&student.VerificationExpiresAt,
		&student.PasswordResetToken,
		&student.ResetExpiresAt,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student inside the registration transaction. The
// unique constraints on email and matric_number are the real duplicate
// guard; callers map the violation through dberrors.
func (r *StudentRepository) Create(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (full_name, matric_number, email, password_hash, department, level,
			email_verification_token, email_verification_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		student.FullName,
		student.MatricNumber,
		student.Email,
		student.PasswordHash,
		student.Department,
		student.Level,
		student.EmailVerificationToken,
		student.VerificationExpiresAt,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE email = $1`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByIdentifier retrieves a student by email or matric number
func (r *StudentRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE email = $1 OR matric_number = $2`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, strings.ToLower(identifier), strings.ToUpper(identifier)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// EmailExists checks if an email is already registered
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// MatricNumberExists checks if a matric number is already registered
func (r *StudentRepository) MatricNumberExists(ctx context.Context, matricNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE matric_number = $1)`, strings.ToUpper(matricNumber)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking matric number existence: %w", err)
	}
	return exists, nil
}

// ConsumeVerificationToken marks the owning student verified and spends the
// token in the same statement, so a token can only ever verify once.
func (r *StudentRepository) ConsumeVerificationToken(ctx context.Context, token string) (*models.Student, error) {
	query := fmt.Sprintf(`
		UPDATE students
		SET email_verified = TRUE, email_verification_token = NULL, email_verification_expires = NULL
		WHERE email_verification_token = $1 AND email_verification_expires > NOW()
		RETURNING %s`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVerificationTokenInvalid
		}
		return nil, fmt.Errorf("error consuming verification token: %w", err)
	}

	return student, nil
}

// SetVerificationToken stores a fresh verification token for an unverified student
func (r *StudentRepository) SetVerificationToken(ctx context.Context, studentID int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE students
		SET email_verification_token = $2, email_verification_expires = $3
		WHERE id = $1 AND email_verified = FALSE
	`

	tag, err := r.db.Exec(ctx, query, studentID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("error setting verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// SetPasswordResetToken stores a password reset token for a student
func (r *StudentRepository) SetPasswordResetToken(ctx context.Context, studentID int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE students
		SET password_reset_token = $2, password_reset_expires = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, studentID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("error setting password reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ConsumeResetToken sets the new password hash and spends the reset token in
// one statement
func (r *StudentRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (*models.Student, error) {
	query := fmt.Sprintf(`
		UPDATE students
		SET password_hash = $2, password_reset_token = NULL, password_reset_expires = NULL
		WHERE password_reset_token = $1 AND password_reset_expires > NOW()
		RETURNING %s`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, token, passwordHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPasswordResetTokenInvalid
		}
		return nil, fmt.Errorf("error consuming reset token: %w", err)
	}

	return student, nil
}

// UpdateProfile updates the mutable profile fields of a student
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, fullName, department, level string) error {
	query := `
		UPDATE students
		SET full_name = $2, department = $3, level = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, fullName, department, level)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Count returns the total number of registered students
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// GetAllWithClearance retrieves a page of students joined with their
// clearance status, optionally filtered by a search term over name, matric
// number and email.
func (r *StudentRepository) GetAllWithClearance(ctx context.Context, search string, offset uint64, limit int) ([]*models.StudentWithClearance, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = `WHERE s.full_name ILIKE $1 OR s.matric_number ILIKE $1 OR s.email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM students s %s`, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.full_name, s.matric_number, s.email, s.department, s.level,
			s.email_verified, s.created_at, c.status
		FROM students s
		JOIN clearance c ON c.student_id = s.id
		%s
		ORDER BY s.created_at DESC
		OFFSET $%d LIMIT $%d`, where, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.StudentWithClearance
	for rows.Next() {
		var s models.StudentWithClearance
		if err := rows.Scan(
			&s.ID,
			&s.FullName,
			&s.MatricNumber,
			&s.Email,
			&s.Department,
			&s.Level,
			&s.EmailVerified,
			&s.CreatedAt,
			&s.ClearanceStatus,
		); err != nil {
			return nil, 0, err
		}
		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// DepartmentStats aggregates student counts, cleared counts and revenue per department
func (r *StudentRepository) DepartmentStats(ctx context.Context) ([]*models.DepartmentStats, error) {
	query := `
		SELECT s.department,
			COUNT(DISTINCT s.id) AS students,
			COUNT(DISTINCT s.id) FILTER (WHERE c.status = 'cleared') AS cleared,
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'success'), 0) AS revenue
		FROM students s
		JOIN clearance c ON c.student_id = s.id
		LEFT JOIN payments p ON p.student_id = s.id
		GROUP BY s.department
		ORDER BY s.department
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error aggregating department stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.DepartmentStats
	for rows.Next() {
		var s models.DepartmentStats
		if err := rows.Scan(&s.Department, &s.Students, &s.Cleared, &s.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
