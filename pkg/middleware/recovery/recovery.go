// Package recovery turns handler panics into HTTP 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/stylevault/stylevault/pkg/middleware/requestid"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// Recovery creates middleware that recovers from panics in HTTP handlers,
// logs the panic with its stack trace and returns HTTP 500.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			defer func() {
				if r := recover(); r != nil {
					requestID := requestid.GetRequestID(c.Request().Context())

					log.Error("panic recovered",
						"request_id", requestID,
						"panic", r,
						"stack", string(debug.Stack()),
					)

					if !c.Response().Written() {
						errorResponse := map[string]interface{}{
							"error":      "internal_server_error",
							"message":    "an unexpected error occurred",
							"request_id": requestID,
						}
						if err := c.JSON(http.StatusInternalServerError, errorResponse); err != nil {
							log.Error("failed to send error response",
								"request_id", requestID,
								"error", err,
							)
						}
					}
				}
			}()

			return next(c)
		}
	}
}
