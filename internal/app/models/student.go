package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID                     int64      `json:"id" db:"id"`
	FullName               string     `json:"fullName" db:"full_name"`
	MatricNumber           string     `json:"matricNumber" db:"matric_number"` // Upper-cased at write time
	Email                  string     `json:"email" db:"email"`                // Lower-cased at write time
	PasswordHash           string     `json:"-" db:"password_hash"`
	Department             string     `json:"department" db:"department"`
	Level                  string     `json:"level" db:"level"`
	EmailVerified          bool       `json:"emailVerified" db:"email_verified"`
	EmailVerificationToken *string    `json:"-" db:"email_verification_token"`
	VerificationExpiresAt  *time.Time `json:"-" db:"email_verification_expires"`
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	ResetExpiresAt         *time.Time `json:"-" db:"password_reset_expires"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
}

// StudentWithClearance joins a student with their clearance status for
// admin listings
type StudentWithClearance struct {
	Student
	ClearanceStatus ClearanceStatus `json:"clearanceStatus" db:"clearance_status"`
}
