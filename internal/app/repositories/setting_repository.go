package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// ISettingRepository defines the interface for settings-related database operations
type ISettingRepository interface {
	GetAll(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage, description *string) error
}

// SettingRepository handles database operations for portal settings
type SettingRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all settings
func (r *SettingRepository) GetAll(ctx context.Context) ([]*models.Setting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT key, value, description, updated_at FROM settings ORDER BY key`,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Get retrieves a setting by key
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.QueryRow(ctx,
		`SELECT key, value, description, updated_at FROM settings WHERE key = $1`,
		key,
	).Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving setting: %w", err)
	}

	return &s, nil
}

// Upsert inserts a setting or replaces its value if the key exists
func (r *SettingRepository) Upsert(ctx context.Context, key string, value json.RawMessage, description *string) error {
	query, args, err := r.sq.Insert("settings").
		Columns("key", "value", "description").
		Values(key, value, description).
		Suffix(`ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value,
			description = COALESCE(EXCLUDED.description, settings.description),
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building setting upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error upserting setting: %w", err)
	}

	return nil
}
