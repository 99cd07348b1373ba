package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueConstraintError(t *testing.T) {
	emailErr := &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}

	if !IsUniqueConstraintError(emailErr, "students_email_key") {
		t.Error("matching constraint was not recognized")
	}
	if IsUniqueConstraintError(emailErr, "students_matric_number_key") {
		t.Error("different constraint matched")
	}

	wrapped := fmt.Errorf("failed to register student: %w", emailErr)
	if !IsUniqueConstraintError(wrapped, "students_email_key") {
		t.Error("wrapped error was not recognized")
	}

	if IsUniqueConstraintError(errors.New("plain error"), "students_email_key") {
		t.Error("non-pg error matched")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "payments_fee_id_fkey"}

	if !IsForeignKeyViolation(fkErr) {
		t.Error("foreign key violation was not recognized")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation misread as foreign key violation")
	}
	if IsForeignKeyViolation(errors.New("plain error")) {
		t.Error("non-pg error matched")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation was not recognized")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misread as unique violation")
	}
}
