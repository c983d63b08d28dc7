package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corpotravel/trip-management/internal/transport"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports component liveness. Redis is optional plumbing,
// so a failed cache only degrades the status instead of failing it.
type HealthHandler struct {
	*transport.BaseHandler
	db    *sqlx.DB
	redis *redis.Client
}

func NewHealthHandler(logger *slog.Logger, db *sqlx.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		BaseHandler: transport.NewBaseHandler(logger),
		db:          db,
		redis:       redisClient,
	}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}
	status := "ok"
	httpStatus := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			components["database"] = "down"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			h.Logger.Error("health check: database unreachable", "error", err)
		} else {
			components["database"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "down"
			if status == "ok" {
				status = "degraded"
			}
			h.Logger.Warn("health check: redis unreachable", "error", err)
		} else {
			components["redis"] = "ok"
		}
	}

	h.WriteJSON(w, httpStatus, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
