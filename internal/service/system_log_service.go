package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/observability"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

// SystemEventRecorder is the narrow ingest view other services use to emit
// internal events without depending on the full system log service.
type SystemEventRecorder interface {
	Record(ctx context.Context, payload dto.SystemLogCreateRequest) (dto.SystemLogResponse, error)
}

// SystemLogService validates and persists internal system events.
type SystemLogService interface {
	SystemEventRecorder
	List(ctx context.Context, req dto.LogListRequest) (dto.SystemLogListResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.SystemLogResponse, error)
}

type systemLogService struct {
	repo          repository.SystemLogRepository
	validator     *validator.Validate
	retentionDays int
	logger        zerolog.Logger
	now           func() time.Time
}

// NewSystemLogService constructs the system log service.
func NewSystemLogService(repo repository.SystemLogRepository, validate *validator.Validate, retentionDays int, logger zerolog.Logger) SystemLogService {
	return &systemLogService{
		repo:          repo,
		validator:     validate,
		retentionDays: retentionDays,
		logger:        logger.With().Str("component", "system_log_service").Logger(),
		now:           time.Now,
	}
}

func (s *systemLogService) Record(ctx context.Context, payload dto.SystemLogCreateRequest) (dto.SystemLogResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SystemLogResponse{}, err
	}

	level := models.Severity(strings.ToLower(strings.TrimSpace(payload.Level)))
	if !level.Valid() {
		return dto.SystemLogResponse{}, fmt.Errorf("%w: unknown severity %q", ErrValidation, payload.Level)
	}

	timestamp := payload.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	entry := models.SystemLog{
		ID:         uuid.NewString(),
		Level:      level,
		Component:  strings.TrimSpace(payload.Component),
		Message:    strings.TrimSpace(payload.Message),
		StackTrace: payload.StackTrace,
		Metadata:   sanitizeMetadata(payload.Metadata),
		Timestamp:  timestamp,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("level", string(level)).Str("log_component", entry.Component).Msg("failed to persist system log")
		return dto.SystemLogResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	observability.LogEntries().WithLabelValues("system").Inc()

	return dto.NewSystemLogResponse(entry), nil
}

func (s *systemLogService) List(ctx context.Context, req dto.LogListRequest) (dto.SystemLogListResponse, error) {
	filter := repository.SystemLogFilter{
		Level:           strings.TrimSpace(req.Level),
		Component:       strings.TrimSpace(req.Component),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Limit:           normalizeLimit(req.Limit),
		Offset:          req.Offset,
		RetentionCutoff: retentionCutoff(s.now(), s.retentionDays),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SystemLogListResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]dto.SystemLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewSystemLogResponse(entry))
	}

	return dto.SystemLogListResponse{Items: items, Total: total}, nil
}

func (s *systemLogService) Recent(ctx context.Context, limit int) ([]dto.SystemLogResponse, error) {
	response, err := s.List(ctx, dto.LogListRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return response.Items, nil
}
