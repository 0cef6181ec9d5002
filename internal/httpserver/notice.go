package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/pkg/logging"
)

const noticeSession = "notices"

const (
	noticeLoginFailed  = "Invalid username or password"
	noticeAdded        = "Product added successfully"
	noticeUpdated      = "Product updated"
	noticeDeleted      = "Product deleted"
	noticeLogoRefused  = "You are not allowed to upload the store logo"
	noticeLogoUploaded = "Store logo uploaded successfully"
)

func noticeWelcome(user string) string { return fmt.Sprintf("Welcome, %s", user) }

func NewNoticeStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// noticeSessionFor returns the notice session. A cookie that no longer decodes
// (rotated secret, tampering) yields gorilla's fresh session, which is kept so
// the next Save overwrites the bad cookie.
func noticeSessionFor(c echo.Context) (sess *sessions.Session, reset bool) {
	sess, err := session.Get(noticeSession, c)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warnw("notice_session_reset", "error", err)
		return sess, true
	}
	return sess, false
}

// addNotice queues a message for the next rendered view.
func addNotice(c echo.Context, msg string) {
	sess, _ := noticeSessionFor(c)
	if sess == nil {
		return
	}
	sess.AddFlash(msg)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logging.FromContext(c.Request().Context()).Warnw("notice_save_error", "error", err)
	}
}

// takeNotices returns and clears the queued messages.
func takeNotices(c echo.Context) []string {
	out := make([]string, 0)

	sess, reset := noticeSessionFor(c)
	if sess == nil {
		return out
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 && !reset {
		return out
	}
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logging.FromContext(c.Request().Context()).Warnw("notice_save_error", "error", err)
	}
	return out
}

func clearNotices(c echo.Context) {
	sess, _ := noticeSessionFor(c)
	if sess == nil {
		return
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())
}
