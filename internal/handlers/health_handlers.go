package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

// Pinger is any dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	cache     Pinger
	storage   Pinger
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance. cache and storage are
// optional.
func NewHealthHandlers(db, cache, storage Pinger) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		storage:   storage,
		startedAt: time.Now(),
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

const pingTimeout = 2 * time.Second

// HealthCheck reports each dependency. The database is critical; cache and storage
// only degrade the status.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    Version,
		Goroutines: runtime.NumGoroutine(),
	}

	statusCode := http.StatusOK
	for name, dep := range map[string]Pinger{"database": h.db, "redis": h.cache, "storage": h.storage} {
		if dep == nil {
			health.Services[name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			health.Services[name] = "unhealthy"
			if name == "database" {
				health.Status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
			} else if health.Status == "healthy" {
				health.Status = "degraded"
			}
			continue
		}
		health.Services[name] = "healthy"
	}

	return c.JSON(statusCode, health)
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
