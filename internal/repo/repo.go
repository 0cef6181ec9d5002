package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/models"
)

var ErrAdminAlreadyExist = errors.New("admin already exist")

type GormRepo struct {
	DB *gorm.DB
	// HashCost is the bcrypt cost used when seeding accounts; zero means bcrypt.DefaultCost.
	HashCost int
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Admin{}, &models.Settings{})
}
