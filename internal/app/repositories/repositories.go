package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      *StudentRepository
	AdminRepository        *AdminRepository
	FeeRepository          *FeeRepository
	PaymentRepository      *PaymentRepository
	ClearanceRepository    *ClearanceRepository
	NotificationRepository *NotificationRepository
	SettingRepository      *SettingRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(db),
		AdminRepository:        NewAdminRepository(db),
		FeeRepository:          NewFeeRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		ClearanceRepository:    NewClearanceRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		SettingRepository:      NewSettingRepository(db),
	}
}
