package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/utils"
)

// HealthResponse represents the payload returned by the liveness endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// HealthCheck returns a handler that reports process liveness. The scored
// system health report lives under the admin group instead.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
