package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	metrics map[string]func() any
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks:  make(map[string]HealthCheck),
		metrics: make(map[string]func() any),
	}
}

// WithCheck adds a readiness dependency (postgres, redis).
func (h *HealthHandler) WithCheck(name string, check HealthCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

// WithMetrics adds a named section to /health/metrics.
func (h *HealthHandler) WithMetrics(name string, fn func() any) *HealthHandler {
	h.metrics[name] = fn
	return h
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/health/metrics", h.Metrics)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks[name] = "healthy"
		}
	}

	status := "ok"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	out := make(map[string]any, len(h.metrics))
	for name, fn := range h.metrics {
		out[name] = fn()
	}
	out["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return c.JSON(out)
}
