package server

import (
	"net/http"
	"time"

	"academy-api/internal/common/logger"
	"academy-api/internal/common/observability"

	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs every request and records it with the meter.
func requestLogger(log logger.Logger, obs *observability.Observability) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			duration := time.Since(start)
			if obs != nil {
				obs.RecordRequest(r.Context(), route, r.Method, rec.status)
				obs.RecordRequestDuration(r.Context(), route, duration)
			}

			log.Info("request handled", map[string]interface{}{
				"method":   r.Method,
				"route":    route,
				"status":   rec.status,
				"duration": duration.String(),
			})
		})
	}
}
