package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/internal/utils"
)

// ModerationHandler exposes the content flag queue and decision endpoints.
type ModerationHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(service service.ModerationService, logger zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  logger.With().Str("component", "moderation_handler").Logger(),
	}
}

// Register attaches moderation routes to the admin group.
func (h *ModerationHandler) Register(router fiber.Router) {
	router.Get("/moderation/flags", h.listPending)
	router.Post("/moderation/flags", h.createFlag)
	router.Put("/moderation/flags/:flag_id", h.decide)
	router.Get("/moderation/flags/:flag_id/actions", h.listActions)
}

func (h *ModerationHandler) listPending(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil || offset < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	response, err := h.service.ListPending(c.Context(), limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending flags")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to list pending flags")
	}

	return utils.SendSuccess(c, "pending flags", response)
}

func (h *ModerationHandler) createFlag(c *fiber.Ctx) error {
	var payload dto.ContentFlagCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	flag, err := h.service.CreateFlag(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create content flag")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to create content flag")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "content flag created", flag)
}

func (h *ModerationHandler) decide(c *fiber.Ctx) error {
	flagID := c.Params("flag_id")
	if flagID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "missing flag id")
	}

	var payload dto.ModerationDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	flag, err := h.service.ApplyAction(c.Context(), flagID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFlagNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "flag not found")
		case errors.Is(err, service.ErrFlagResolved):
			return utils.SendError(c, fiber.StatusConflict, "flag already resolved")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to apply moderation action")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to apply moderation action")
		}
	}

	return utils.SendSuccess(c, "moderation action applied", flag)
}

func (h *ModerationHandler) listActions(c *fiber.Ctx) error {
	flagID := c.Params("flag_id")
	if flagID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "missing flag id")
	}

	actions, err := h.service.ListActions(c.Context(), flagID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlagNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "flag not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list moderation actions")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to list moderation actions")
		}
	}

	return utils.SendSuccess(c, "moderation actions", actions)
}
