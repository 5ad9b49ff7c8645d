package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/service"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parseQueryDate accepts RFC3339 timestamps or bare dates (2006-01-02).
func parseQueryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseLogListRequest reads the filters shared by the log query endpoints.
func parseLogListRequest(c *fiber.Ctx) (dto.LogListRequest, error) {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return dto.LogListRequest{}, errors.New("invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil || offset < 0 {
		return dto.LogListRequest{}, errors.New("invalid offset")
	}
	start, err := parseQueryDate(c, "start_date")
	if err != nil {
		return dto.LogListRequest{}, errors.New("invalid start date")
	}
	end, err := parseQueryDate(c, "end_date")
	if err != nil {
		return dto.LogListRequest{}, errors.New("invalid end date")
	}

	return dto.LogListRequest{
		StartDate: start,
		EndDate:   end,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	if errors.Is(err, service.ErrValidation) {
		return true
	}
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
