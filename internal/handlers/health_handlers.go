package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"unieats/internal/caching"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      Pinger
	cache   caching.CacheService
	version string
	started time.Time
}

func NewHealthHandlers(db Pinger, cache caching.CacheService, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		version: version,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// HealthCheck reports the process and dependency state. It always answers 200
// while the process is up; dependency failures show as "degraded".
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Truncate(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}
	for name, err := range h.check(ctx) {
		if err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}
	return c.JSON(http.StatusOK, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	for _, err := range h.check(ctx) {
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"message": "Critical services unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

func (h *HealthHandlers) check(ctx context.Context) map[string]error {
	return map[string]error{
		"database": h.db.Ping(ctx),
		"redis":    h.cache.Ping(ctx),
	}
}
