// Package authz decides which products a session identity may see and change.
package authz

import (
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/models"
)

// Identity is the authenticated caller, carried explicitly into every catalog operation.
type Identity struct {
	User string
	Role string
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// IsPermitted reports whether role may modify a product in category.
func IsPermitted(role, category string) bool {
	return role == models.RoleAdmin || role == category
}

// Scope limits a products query to the rows role may see or change.
// Admin queries are left untouched.
func Scope(role string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if role == models.RoleAdmin {
			return db
		}
		return db.Where("category = ?", role)
	}
}

// ForcedCategory returns the category a new product is stamped with.
// Non-admins always create in their own category. Admins may pick any
// category and fall back to their own role when none is given.
func ForcedCategory(ident Identity, requested string) string {
	if !ident.IsAdmin() || requested == "" {
		return ident.Role
	}
	return requested
}
