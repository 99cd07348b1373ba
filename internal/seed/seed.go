package seed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/config"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
)

// CreateDefaultData provisions the default admin account and the baseline
// portal settings. There is no admin self-registration, so a fresh install
// needs this to be usable at all. Safe to run repeatedly.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	adminRepo := repositories.NewAdminRepository(dbPool)
	settingRepo := repositories.NewSettingRepository(dbPool)

	var finalErr error

	exists, err := adminRepo.EmailExists(ctx, cfg.Admin.Email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if default admin exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		if cfg.Admin.Password == "" {
			lgr.Warn().Msg("No admin password configured, skipping default admin creation")
		} else {
			hash, err := auth.HashPassword(cfg.Admin.Password)
			if err != nil {
				lgr.Error().Err(err).Msg("Error hashing default admin password")
				finalErr = errors.Join(finalErr, err)
			} else {
				admin := &models.Admin{
					FullName:     cfg.Admin.FullName,
					Email:        cfg.Admin.Email,
					PasswordHash: hash,
				}
				if err := adminRepo.Create(ctx, admin); err != nil {
					lgr.Error().Err(err).Msg("Error creating default admin")
					finalErr = errors.Join(finalErr, err)
				} else {
					lgr.Info().Str("email", admin.Email).Msg("Default admin created")
				}
			}
		}
	}

	defaults := []struct {
		key         string
		value       string
		description string
	}{
		{"portal_name", `"NACOS Fee Clearance Portal"`, "Display name shown across the portal"},
		{"current_session", `"2025/2026"`, "Academic session new fees default to"},
		{"support_email", `"support@nacosng.org"`, "Contact address shown to students"},
		{"payments_enabled", `true`, "Master switch for payment initialization"},
	}

	for _, d := range defaults {
		if _, err := settingRepo.Get(ctx, d.key); err == nil {
			continue
		}
		desc := d.description
		if err := settingRepo.Upsert(ctx, d.key, json.RawMessage(d.value), &desc); err != nil {
			lgr.Error().Err(err).Str("key", d.key).Msg("Error seeding default setting")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
