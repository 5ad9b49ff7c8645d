package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/observability"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

// ActivityLogService validates and persists user activity entries. A
// successful return means the entry is durable; failures are reported, never
// retried here.
type ActivityLogService interface {
	Record(ctx context.Context, payload dto.ActivityLogCreateRequest) (dto.ActivityLogResponse, error)
	List(ctx context.Context, req dto.LogListRequest) (dto.ActivityLogListResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.ActivityLogResponse, error)
}

type activityLogService struct {
	repo          repository.ActivityLogRepository
	validator     *validator.Validate
	retentionDays int
	logger        zerolog.Logger
	now           func() time.Time
}

// NewActivityLogService constructs the activity log service.
func NewActivityLogService(repo repository.ActivityLogRepository, validate *validator.Validate, retentionDays int, logger zerolog.Logger) ActivityLogService {
	return &activityLogService{
		repo:          repo,
		validator:     validate,
		retentionDays: retentionDays,
		logger:        logger.With().Str("component", "activity_log_service").Logger(),
		now:           time.Now,
	}
}

func (s *activityLogService) Record(ctx context.Context, payload dto.ActivityLogCreateRequest) (dto.ActivityLogResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityLogResponse{}, err
	}

	activityType := models.ActivityType(strings.ToLower(strings.TrimSpace(payload.ActivityType)))
	if !activityType.Valid() {
		return dto.ActivityLogResponse{}, fmt.Errorf("%w: unknown activity type %q", ErrValidation, payload.ActivityType)
	}

	timestamp := payload.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	entry := models.ActivityLog{
		ID:           uuid.NewString(),
		UserID:       payload.UserID,
		UserEmail:    payload.UserEmail,
		ActivityType: activityType,
		Description:  strings.TrimSpace(payload.Description),
		IPAddress:    payload.IPAddress,
		UserAgent:    payload.UserAgent,
		Metadata:     sanitizeMetadata(payload.Metadata),
		Timestamp:    timestamp,
		SessionID:    payload.SessionID,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("activity_type", string(activityType)).Msg("failed to persist activity log")
		return dto.ActivityLogResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	observability.LogEntries().WithLabelValues("activity").Inc()

	return dto.NewActivityLogResponse(entry), nil
}

func (s *activityLogService) List(ctx context.Context, req dto.LogListRequest) (dto.ActivityLogListResponse, error) {
	filter := repository.ActivityLogFilter{
		ActivityType:    strings.TrimSpace(req.ActivityType),
		UserID:          strings.TrimSpace(req.UserID),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Limit:           normalizeLimit(req.Limit),
		Offset:          req.Offset,
		RetentionCutoff: retentionCutoff(s.now(), s.retentionDays),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityLogListResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityLogResponse(entry))
	}

	return dto.ActivityLogListResponse{Items: items, Total: total}, nil
}

func (s *activityLogService) Recent(ctx context.Context, limit int) ([]dto.ActivityLogResponse, error) {
	response, err := s.List(ctx, dto.LogListRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return response.Items, nil
}

// sanitizeMetadata masks values stored under keys that commonly carry
// credentials or direct identifiers.
func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}

func retentionCutoff(now time.Time, days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}
