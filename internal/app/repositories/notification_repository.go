package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// INotificationRepository defines the interface for notification-related database operations
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByStudent(ctx context.Context, studentID int64, unreadOnly bool) ([]*models.Notification, error)
	CountUnread(ctx context.Context, studentID int64) (int, error)
	MarkRead(ctx context.Context, id, studentID int64) error
	MarkAllRead(ctx context.Context, studentID int64) error
}

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification for a student
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query, args, err := r.sq.Insert("notifications").
		Columns("student_id", "title", "message", "type").
		Values(notification.StudentID, notification.Title, notification.Message, notification.Type).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building notification insert: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// GetByStudent retrieves a student's notifications, newest first
func (r *NotificationRepository) GetByStudent(ctx context.Context, studentID int64, unreadOnly bool) ([]*models.Notification, error) {
	builder := r.sq.Select("id", "student_id", "title", "message", "type", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC")

	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"is_read": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building notification query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.StudentID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// CountUnread counts a student's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE student_id = $1 AND is_read = FALSE`,
		studentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification read. The student_id guard stops students
// from touching each other's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID int64) error {
	query, args, err := r.sq.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building notification update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks all of a student's notifications read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID int64) error {
	query, args, err := r.sq.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"student_id": studentID, "is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building notification update: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}

	return nil
}
