package repo

import (
	"context"

	"github.com/Skotchmaster/inventory/internal/models"
)

func (r *GormRepo) EnsureSettings(ctx context.Context) error {
	settings := models.Settings{ID: models.SettingsID}
	return r.DB.WithContext(ctx).Where("id = ?", models.SettingsID).FirstOrCreate(&settings).Error
}

func (r *GormRepo) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.DB.WithContext(ctx).Where("id = ?", models.SettingsID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GormRepo) SetLogo(ctx context.Context, filename string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Settings{}).
		Where("id = ?", models.SettingsID).
		Update("logo", filename).Error
}

// Bootstrap migrates the schema, seeds accounts and creates the settings row.
func (r *GormRepo) Bootstrap(ctx context.Context, accounts []SeedAccount) error {
	if err := r.Migrate(ctx); err != nil {
		return err
	}
	if err := r.SeedAccounts(ctx, accounts); err != nil {
		return err
	}
	return r.EnsureSettings(ctx)
}
