package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/pkg/hash"
)

type SeedAccount struct {
	Username string
	Password string
	Role     string
}

var DefaultAccounts = []SeedAccount{
	{Username: "admin", Password: "1234", Role: models.RoleAdmin},
	{Username: "factory", Password: "1111", Role: models.RoleFactory},
	{Username: "warehouse", Password: "2222", Role: models.RoleWarehouse},
	{Username: "purchases", Password: "3333", Role: models.RolePurchases},
}

func (r *GormRepo) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormRepo) CreateAdminIfNotExists(ctx context.Context, a *models.Admin) error {
	tx := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(a)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAdminAlreadyExist
	}
	return nil
}

// SeedAccounts inserts missing accounts with hashed passwords. Existing rows are left as they are.
func (r *GormRepo) SeedAccounts(ctx context.Context, accounts []SeedAccount) error {
	for _, acc := range accounts {
		_, err := r.GetAdminByUsername(ctx, acc.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pwHash, err := hash.HashPasswordCost(acc.Password, r.HashCost)
		if err != nil {
			return err
		}
		admin := models.Admin{Username: acc.Username, PasswordHash: pwHash, Role: acc.Role}
		if err := r.CreateAdminIfNotExists(ctx, &admin); err != nil && !errors.Is(err, ErrAdminAlreadyExist) {
			return err
		}
	}
	return nil
}
