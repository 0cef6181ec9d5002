package httpserver

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	AuthHandler    *AuthHTTP
	Sessions       *authmw.SessionMiddleware
	NoticeStore    sessions.Store
	UploadDir      string
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	if d.UploadDir != "" {
		e.Static("/static/uploads", d.UploadDir)
	}

	notices := session.Middleware(d.NoticeStore)
	requireSession := d.Sessions.RequireSession()

	e.GET("/", d.AuthHandler.LoginPage, notices)
	e.POST("/", d.AuthHandler.Login, notices)
	e.GET("/logout", d.AuthHandler.LogOut, notices)
	e.GET("/menu", d.CatalogHandler.Menu)

	e.GET("/dashboard", d.CatalogHandler.Dashboard, notices, requireSession)
	e.POST("/add", d.CatalogHandler.AddProduct, notices, requireSession)
	e.POST("/edit/:id", d.CatalogHandler.EditProduct, notices, requireSession)
	e.GET("/delete/:id", d.CatalogHandler.DeleteProduct, notices, requireSession)
	e.POST("/upload_logo", d.CatalogHandler.UploadLogo, notices, requireSession)
}
