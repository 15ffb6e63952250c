package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nexo-digital/site/internal/platform/observability"
)

// Middleware observes every request under its chi route pattern. Requests
// without one never carry their raw path as a label.
func (p *PrometheusRecorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			p.ObserveRequest(routeLabel(r, status), status, time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}

// routeLabel is the chi pattern, "redirect" for a 3xx answered before routing
// and "unmatched" for everything else without a pattern.
func routeLabel(r *http.Request, status int) string {
	if pattern, ok := observability.MatchedPattern(r); ok {
		return observability.SanitizeRoute(pattern)
	}
	if status >= http.StatusMultipleChoices && status < http.StatusBadRequest {
		return "redirect"
	}
	return "unmatched"
}
