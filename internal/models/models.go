package models

const (
	RoleAdmin     = "admin"
	RoleFactory   = "factory"
	RoleWarehouse = "warehouse"
	RolePurchases = "purchases"
)

type Product struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name      string `gorm:"not null"                          json:"name"`
	Image     string `gorm:"size:255"                          json:"image,omitempty"`
	Available bool   `gorm:"not null"                          json:"available"`
	Category  string `gorm:"not null;default:factory;index"    json:"category"`
}

type Admin struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string `gorm:"unique;not null"            json:"username"`
	PasswordHash string `gorm:"not null"                   json:"-"`
	Role         string `gorm:"not null;default:factory"   json:"role"`
}

func (Admin) TableName() string { return "admin" }

// Settings is a singleton row, always id = SettingsID.
type Settings struct {
	ID   uint    `gorm:"primaryKey"  json:"id"`
	Logo *string `                   json:"logo"`
}

const SettingsID = 1
