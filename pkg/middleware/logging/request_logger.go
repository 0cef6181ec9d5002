package loggingmw

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Skotchmaster/inventory/pkg/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// logs one "request completed" line per request. Errors are handed to echo's
// error handler first so the logged status is the one the client saw.
func RequestLogger(base *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:       true,
		LogURIPath:      true,
		LogRoutePath:    true,
		LogRemoteIP:     true,
		LogUserAgent:    true,
		LogRequestID:    true,
		LogStatus:       true,
		LogLatency:      true,
		LogResponseSize: true,
		LogError:        true,
		HandleError:     true,
		BeforeNextFunc: func(c echo.Context) {
			l := base
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logging.FromContext(c.Request().Context()).With(
				"method", v.Method,
				"path", v.RoutePath,
				"url", v.URIPath,
				"remote_ip", v.RemoteIP,
				"user_agent", v.UserAgent,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
			)
			switch {
			case v.Error != nil || v.Status >= 500:
				l.Errorw("request completed", "error", v.Error)
			case v.Status >= 400:
				l.Warnw("request completed")
			default:
				l.Infow("request completed", "bytes", v.ResponseSize)
			}
			return nil
		},
	})
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
