package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/internal/utils"
)

// DashboardHandler exposes the aggregated admin views: dashboard, analytics,
// realtime stats and the health report.
type DashboardHandler struct {
	dashboard service.DashboardService
	analytics service.AnalyticsService
	logger    zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard service.DashboardService, analytics service.AnalyticsService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		analytics: analytics,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the aggregate routes to the admin group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/analytics", h.getAnalytics)
	router.Get("/stats/realtime", h.getRealtime)
	router.Get("/health", h.getHealth)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	response, err := h.dashboard.Dashboard(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to load dashboard")
	}

	return utils.SendSuccess(c, "admin dashboard", response)
}

func (h *DashboardHandler) getAnalytics(c *fiber.Ctx) error {
	snapshot, err := h.analytics.Snapshot(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute analytics")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to load analytics")
	}

	return utils.SendSuccess(c, "analytics summary", snapshot)
}

func (h *DashboardHandler) getRealtime(c *fiber.Ctx) error {
	stats, err := h.dashboard.Realtime(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute realtime stats")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to load realtime stats")
	}

	return utils.SendSuccess(c, "realtime stats", stats)
}

func (h *DashboardHandler) getHealth(c *fiber.Ctx) error {
	report, err := h.dashboard.Health(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute health report")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "failed to load health report")
	}

	return utils.SendSuccess(c, "system health", report)
}
