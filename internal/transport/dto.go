package transport

import (
	"time"

	"github.com/Skotchmaster/inventory/internal/models"
)

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type LoginResult struct {
	User      string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// Listing is the product list shown on the dashboard and the public menu.
type Listing struct {
	Products []models.Product `json:"products"`
	Logo     *string          `json:"logo"`
}

type DashboardView struct {
	User     string           `json:"user"`
	Role     string           `json:"role"`
	Products []models.Product `json:"products"`
	Logo     *string          `json:"logo"`
	Notices  []string         `json:"notices"`
}

type MenuView struct {
	Category string           `json:"category,omitempty"`
	Products []models.Product `json:"products"`
	Logo     *string          `json:"logo"`
}

type LoginView struct {
	Notices []string `json:"notices"`
}
