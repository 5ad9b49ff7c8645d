package handler

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/service"
	"github.com/noah-isme/clinic-admin-api/internal/utils"
)

// ExportHandler serves log exports as downloadable JSON or CSV files.
type ExportHandler struct {
	service service.ExportService
	logger  zerolog.Logger
	now     func() time.Time
}

// NewExportHandler constructs the handler.
func NewExportHandler(service service.ExportService, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With().Str("component", "export_handler").Logger(),
		now:     time.Now,
	}
}

// Register attaches the export route to the admin group.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/export/logs", h.export)
}

func (h *ExportHandler) export(c *fiber.Ctx) error {
	start, err := parseQueryDate(c, "start_date")
	if err != nil || start == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid start date")
	}
	end, err := parseQueryDate(c, "end_date")
	if err != nil || end == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid end date")
	}

	format := c.Query("format", dto.ExportFormatJSON)
	req := dto.LogExportRequest{
		LogType:   c.Query("log_type", dto.ExportLogTypeActivities),
		StartDate: *start,
		EndDate:   *end,
		Format:    format,
	}

	if err := h.service.Validate(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("%s_export_%s.%s", req.LogType, h.now().UTC().Format("20060102T150405"), format)
	if format == dto.ExportFormatCSV {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	// Rows are written straight to the response as the repositories stream
	// them, so the payload is never assembled in memory. Failures past this
	// point can only be logged: the status line is already on the wire.
	logger := requestLogger(h.logger, c)
	reqCtx := c.Context()
	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := h.service.Export(reqCtx, req, w); err != nil {
			logger.Error().Err(err).Msg("log export aborted mid-stream")
		}
	})
	return nil
}
