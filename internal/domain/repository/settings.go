package repository

import (
	"context"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// SettingsRepository reads business settings.
type SettingsRepository interface {
	// Current returns the latest settings row or model.DefaultSettings.
	Current(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, settings model.Settings) error
}
