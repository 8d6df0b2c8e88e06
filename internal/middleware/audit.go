package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/common"
	"taskboard/internal/logging"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Audit sensitivity levels.
const (
	AuditLow  = "low"
	AuditHigh = "high"
)

// AuditRequest writes an "audit" log event for authenticated writes and failed
// requests. The high level also records query parameters and redacted headers.
func AuditRequest(sensitivityLevel string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			ctx := c.Request().Context()
			principal, ok := common.PrincipalFromContext(ctx)
			if !ok {
				return err
			}

			method := c.Request().Method
			if !shouldAudit(method, err) {
				return err
			}

			event := logging.FromContext(ctx).Info().
				Str("audit", "http_request").
				Str("method", method).
				Str("route", c.Path()).
				Str("user_id", principal.UserID.String()).
				Str("customer_id", principal.CustomerID.String()).
				Str("ip", c.RealIP())
			if id := c.Param("id"); id != "" {
				event = event.Str("record_id", id)
			}
			if err != nil {
				event = event.Str("error", err.Error())
			}
			if sensitivityLevel == AuditHigh {
				event = event.
					Interface("query_params", c.QueryParams()).
					Dict("headers", sanitizeHeaders(c.Request().Header))
			}
			event.Msg("audit")

			return err
		}
	}
}

func shouldAudit(method string, reqErr error) bool {
	if reqErr != nil {
		return true
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// sanitizeHeaders redacts credentials before logging.
func sanitizeHeaders(headers http.Header) *zerolog.Event {
	dict := zerolog.Dict()
	for key, values := range headers {
		if isSensitiveHeader(key) {
			dict = dict.Str(key, "[REDACTED]")
			continue
		}
		dict = dict.Strs(key, values)
	}
	return dict
}

func isSensitiveHeader(header string) bool {
	switch strings.ToLower(header) {
	case "authorization", "cookie", "x-api-key", "x-auth-token", "proxy-authorization":
		return true
	}
	return false
}
