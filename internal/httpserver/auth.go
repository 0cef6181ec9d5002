package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.LoginView{Notices: takeNotices(c)})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warnw("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			notices := append(takeNotices(c), noticeLoginFailed)
			return c.JSON(http.StatusUnauthorized, transport.LoginView{Notices: notices})
		}
		l.Errorw("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, res.Token, "/", res.ExpiresAt, h.CookieSecure))
	addNotice(c, noticeWelcome(res.User))

	l.Infow("login_successful", "user", res.User, "role", res.Role)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", h.CookieSecure))
	clearNotices(c)

	l.Infow("successful_logout")
	return c.Redirect(http.StatusSeeOther, "/")
}
