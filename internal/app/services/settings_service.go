package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// SettingsService manages the portal-wide key/value settings
type SettingsService struct {
	settingRepo repositories.ISettingRepository
	logger      zerolog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingRepo repositories.ISettingRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// GetAll retrieves all settings
func (s *SettingsService) GetAll(ctx context.Context) ([]*models.Setting, error) {
	return s.settingRepo.GetAll(ctx)
}

// Update upserts the given settings. Values are opaque JSON; only non-empty
// keys are accepted.
func (s *SettingsService) Update(ctx context.Context, settings map[string]json.RawMessage) error {
	if len(settings) == 0 {
		return apperrors.NewValidationError("no settings provided")
	}

	for key, value := range settings {
		if key == "" {
			return apperrors.NewValidationError("setting key cannot be empty")
		}
		if err := s.settingRepo.Upsert(ctx, key, value, nil); err != nil {
			return err
		}
		s.logger.Info().Str("key", key).Msg("Setting updated")
	}

	return nil
}
