package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mazraaty/backend/api/responses"
	"github.com/mazraaty/backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports process liveness plus dependency reachability.
func Health(db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "db": "ok", "redis": "ok"}
		healthy := true

		if db == nil || db.Ping(ctx) != nil {
			status["db"] = "down"
			healthy = false
		}
		if cache == nil || cache.Ping(ctx) != nil {
			status["redis"] = "down"
			healthy = false
		}

		if !healthy {
			status["status"] = "degraded"
			logg.Warn(r.Context(), "health.degraded")
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// Ping is the bare liveness probe.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
