package models

import "time"

// Admin defines the administrator model based on the 'admins' table.
// Admins are pre-provisioned (seeded); there is no self-registration path.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
