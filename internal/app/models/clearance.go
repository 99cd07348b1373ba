package models

import "time"

// ClearanceStatus is the state of a student's clearance record
type ClearanceStatus string

const (
	ClearanceUncleared ClearanceStatus = "uncleared"
	ClearanceCleared   ClearanceStatus = "cleared"
)

// Clearance defines the one-per-student clearance record. It is created
// uncleared at registration and flips to cleared when a payment confirms;
// nothing transitions it back.
type Clearance struct {
	ID        int64           `json:"id" db:"id"`
	StudentID int64           `json:"studentId" db:"student_id"`
	Status    ClearanceStatus `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
