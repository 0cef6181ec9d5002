package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/authz"
	"github.com/Skotchmaster/inventory/internal/models"
)

// ProductChanges are the columns an edit may touch. Category is deliberately absent.
type ProductChanges struct {
	Name      string
	Available bool
	// Image is only written when non-empty.
	Image string
}

func (r *GormRepo) ListProducts(ctx context.Context, role string) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(authz.Scope(role)).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListMenu returns every product, or only those in category when it is non-empty.
func (r *GormRepo) ListMenu(ctx context.Context, category string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	items := make([]models.Product, 0)
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProductScoped applies changes to product id only if role may modify it.
// gorm.ErrRecordNotFound means no row matched the id and role predicate.
func (r *GormRepo) UpdateProductScoped(ctx context.Context, role string, id uint, ch ProductChanges) error {
	updates := map[string]any{
		"name":      ch.Name,
		"available": ch.Available,
	}
	if ch.Image != "" {
		updates["image"] = ch.Image
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(authz.Scope(role)).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProductScoped(ctx context.Context, role string, id uint) error {
	res := r.DB.WithContext(ctx).
		Scopes(authz.Scope(role)).
		Where("id = ?", id).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
