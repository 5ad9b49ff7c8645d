package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/internal/utils"
)

// SystemLogHandler exposes system log ingest and query endpoints.
type SystemLogHandler struct {
	service service.SystemLogService
	logger  zerolog.Logger
}

// NewSystemLogHandler constructs the handler.
func NewSystemLogHandler(service service.SystemLogService, logger zerolog.Logger) *SystemLogHandler {
	return &SystemLogHandler{
		service: service,
		logger:  logger.With().Str("component", "system_log_handler").Logger(),
	}
}

// Register attaches system log routes to the admin group.
func (h *SystemLogHandler) Register(router fiber.Router) {
	router.Post("/logs/system", middleware.RateLimit("system_ingest", 120, time.Minute), h.create)
	router.Get("/logs/system", h.list)
}

func (h *SystemLogHandler) create(c *fiber.Ctx) error {
	var payload dto.SystemLogCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Record(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record system log")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to record system log")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "system log recorded", entry)
}

func (h *SystemLogHandler) list(c *fiber.Ctx) error {
	req, err := parseLogListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Level = c.Query("level")
	req.Component = c.Query("component")

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list system logs")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to list system logs")
	}

	return utils.SendSuccess(c, "system logs", response)
}
