package middleware

import (
	"taskboard/internal/logging"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped logger carrying the request id and
// writes one access log line per request. It must run after echo's RequestID.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With().Str("request_id", reqID).Logger()
			c.SetRequest(c.Request().WithContext(logging.WithContext(c.Request().Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			event := base.Info()
			switch {
			case v.Status >= 500:
				event = base.Error().Err(v.Error)
			case v.Status >= 400:
				event = base.Warn()
				if v.Error != nil {
					event = event.Str("error", v.Error.Error())
				}
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("remote_ip", v.RemoteIP).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
