package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HealthChecker interface {
	HealthCheck() error
}

// OpsHandler serves the operational endpoints outside the versioned API.
type OpsHandler struct {
	logger         *zap.Logger
	health         HealthChecker
	metricsHandler fiber.Handler
}

// NewOpsHandler exposes gatherer on /metrics when it is non-nil.
func NewOpsHandler(logger *zap.Logger, health HealthChecker, gatherer prometheus.Gatherer) *OpsHandler {
	ops := &OpsHandler{logger: logger, health: health}
	if gatherer != nil {
		ops.metricsHandler = adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return ops
}

func (o *OpsHandler) Health(c *fiber.Ctx) error {
	if err := o.health.HealthCheck(); err != nil {
		o.logger.Error("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "down",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "up",
	})
}
