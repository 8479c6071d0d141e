// Package metrics records Prometheus metrics for HTTP requests.
package metrics

import (
	"time"

	"github.com/stylevault/stylevault/pkg/observability/metrics"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// Metrics creates middleware that records the request duration histogram,
// the request counter and the in-flight gauge for every request.
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			metrics.RecordHTTPMetrics(
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status(),
				duration,
			)

			return err
		}
	}
}
