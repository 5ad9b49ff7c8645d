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

// ActivityLogHandler exposes activity log ingest and query endpoints.
type ActivityLogHandler struct {
	service service.ActivityLogService
	logger  zerolog.Logger
}

// NewActivityLogHandler constructs the handler.
func NewActivityLogHandler(service service.ActivityLogService, logger zerolog.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_log_handler").Logger(),
	}
}

// Register attaches activity log routes to the admin group.
func (h *ActivityLogHandler) Register(router fiber.Router) {
	router.Post("/logs/activity", middleware.RateLimit("activity_ingest", 120, time.Minute), h.create)
	router.Get("/logs/user-activities", h.list)
}

func (h *ActivityLogHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityLogCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Record(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record activity log")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to record activity log")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity log recorded", entry)
}

func (h *ActivityLogHandler) list(c *fiber.Ctx) error {
	req, err := parseLogListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	req.ActivityType = c.Query("activity_type")
	req.UserID = c.Query("user_id")

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity logs")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to list activity logs")
	}

	return utils.SendSuccess(c, "activity logs", response)
}
