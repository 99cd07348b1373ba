package models

import "time"

// NotificationType classifies an in-app notification
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationAlert   NotificationType = "alert"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

// Notification defines an in-app message for a student
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
