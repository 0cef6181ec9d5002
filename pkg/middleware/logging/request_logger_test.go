package loggingmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Skotchmaster/inventory/pkg/logging"
)

func TestRequestLogger_InjectsLoggerAndLogsStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core).Sugar()

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/ok", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Infow("inside")
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "rid-1", inside[0].ContextMap()["request_id"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 2)
	assert.Equal(t, zap.InfoLevel, done[0].Level)
	assert.Equal(t, zap.ErrorLevel, done[1].Level)
}

func TestRequestLogger_UsesGeneratedRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(zap.New(core).Sugar()))
	e.GET("/items/:id", func(c echo.Context) error {
		return c.String(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, zap.WarnLevel, done[0].Level)
	assert.Equal(t, rid, fields["request_id"])
	assert.Equal(t, "/items/:id", fields["path"])
	assert.Equal(t, "/items/7", fields["url"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
