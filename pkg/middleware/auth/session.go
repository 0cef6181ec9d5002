package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

const (
	ctxSessionKey = "session"
	ctxUserKey    = "user"
	ctxRoleKey    = "role"
)

type SessionMiddleware struct {
	Secret []byte
	// LoginPath is where requests without a valid session are sent.
	LoginPath    string
	CookieSecure bool
}

func NewSessionMiddleware(secret []byte, loginPath string, cookieSecure bool) *SessionMiddleware {
	if loginPath == "" {
		loginPath = "/"
	}
	return &SessionMiddleware{Secret: secret, LoginPath: loginPath, CookieSecure: cookieSecure}
}

// RequireSession lets a request through only with a valid session cookie and
// redirects to the login page otherwise.
func (m *SessionMiddleware) RequireSession() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxSessionKey,
		TokenLookup: "cookie:" + tokens.SessionCookie,
		ParseTokenFunc: func(_ echo.Context, raw string) (interface{}, error) {
			return tokens.SessionClaimsFromToken(raw, m.Secret)
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get(ctxSessionKey).(*tokens.SessionClaims); ok {
				setUserContext(c, claims)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, cerr := c.Cookie(tokens.SessionCookie); cerr == nil {
				logging.FromContext(c.Request().Context()).Infow("session_rejected", "error", err)
				c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", m.CookieSecure))
			}
			return c.Redirect(http.StatusSeeOther, m.LoginPath)
		},
	})
}

func setUserContext(c echo.Context, claims *tokens.SessionClaims) {
	c.Set(ctxUserKey, claims.Subject)
	c.Set(ctxRoleKey, claims.Role)
}

// CurrentUser returns the user and role stored by RequireSession.
func CurrentUser(c echo.Context) (user, role string, ok bool) {
	user, uok := c.Get(ctxUserKey).(string)
	role, rok := c.Get(ctxRoleKey).(string)
	if !uok || !rok || user == "" || role == "" {
		return "", "", false
	}
	return user, role, true
}
