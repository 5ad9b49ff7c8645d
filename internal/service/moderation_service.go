package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

// ModerationService runs the content flag state machine. Flags start pending;
// approve and reject are terminal; escalate records an audit entry while the
// flag stays pending. Decisions against the flag store bypass the analytics
// cache entirely, because moderation correctness requires fresh reads.
type ModerationService interface {
	CreateFlag(ctx context.Context, payload dto.ContentFlagCreateRequest) (dto.ContentFlagResponse, error)
	ApplyAction(ctx context.Context, flagID string, payload dto.ModerationDecisionRequest) (dto.ContentFlagResponse, error)
	ListPending(ctx context.Context, limit, offset int) (dto.ContentFlagListResponse, error)
	ListActions(ctx context.Context, flagID string) ([]dto.ModerationActionResponse, error)
}

type moderationService struct {
	repo      repository.FlagRepository
	validator *validator.Validate
	events    SystemEventRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewModerationService constructs the moderation workflow service. events may
// be nil; decision logging is best-effort and never blocks the decision.
func NewModerationService(repo repository.FlagRepository, validate *validator.Validate, events SystemEventRecorder, logger zerolog.Logger) ModerationService {
	return &moderationService{
		repo:      repo,
		validator: validate,
		events:    events,
		logger:    logger.With().Str("component", "moderation_service").Logger(),
		now:       time.Now,
	}
}

func (s *moderationService) CreateFlag(ctx context.Context, payload dto.ContentFlagCreateRequest) (dto.ContentFlagResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ContentFlagResponse{}, err
	}
	if strings.TrimSpace(payload.Reason) == "" {
		return dto.ContentFlagResponse{}, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	flag := models.ContentFlag{
		ID:            uuid.NewString(),
		ContentType:   strings.TrimSpace(payload.ContentType),
		ContentID:     strings.TrimSpace(payload.ContentID),
		ReporterID:    payload.ReporterID,
		ReporterEmail: payload.ReporterEmail,
		Reason:        strings.TrimSpace(payload.Reason),
		Description:   payload.Description,
		Status:        models.FlagPending,
		Timestamp:     s.now(),
	}

	if err := s.repo.CreateFlag(ctx, &flag); err != nil {
		s.logger.Error().Err(err).Str("content_type", flag.ContentType).Msg("failed to persist content flag")
		return dto.ContentFlagResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.recordEvent(ctx, fmt.Sprintf("content flag created for %s:%s", flag.ContentType, flag.ContentID), map[string]interface{}{
		"flag_id": flag.ID,
		"reason":  flag.Reason,
	})

	return dto.NewContentFlagResponse(flag), nil
}

func (s *moderationService) ApplyAction(ctx context.Context, flagID string, payload dto.ModerationDecisionRequest) (dto.ContentFlagResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/clinic-admin-api/internal/service/moderation")
	ctx, span := tracer.Start(ctx, "moderation.apply_action")
	span.SetAttributes(
		attribute.String("moderation.flag_id", flagID),
		attribute.String("moderation.action", payload.Action),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ContentFlagResponse{}, err
	}

	flag, err := s.repo.GetFlag(ctx, flagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "flag_not_found")
			return dto.ContentFlagResponse{}, ErrFlagNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "flag_lookup_failed")
		return dto.ContentFlagResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	actionType := models.ModerationActionType(payload.Action)
	nextStatus, legal := models.NextStatus(flag.Status, actionType)
	if !legal {
		span.SetStatus(codes.Error, "illegal_transition")
		return dto.ContentFlagResponse{}, ErrFlagResolved
	}

	action := models.ModerationAction{
		ID:         uuid.NewString(),
		AdminID:    strings.TrimSpace(payload.AdminID),
		AdminEmail: strings.TrimSpace(payload.AdminEmail),
		TargetType: flag.ContentType,
		TargetID:   flag.ContentID,
		ActionType: actionType,
		Reason:     payload.Reason,
		Status:     nextStatus,
		Metadata:   sanitizeMetadata(payload.Metadata),
		Timestamp:  s.now(),
	}

	// The repository re-checks pending status inside the transaction, so a
	// concurrent decision that lands first turns this into ErrFlagResolved.
	if err := s.repo.Resolve(ctx, flag.ID, nextStatus, payload.AdminNotes, &action); err != nil {
		switch {
		case errors.Is(err, repository.ErrFlagNotPending):
			span.SetStatus(codes.Error, "illegal_transition")
			return dto.ContentFlagResponse{}, ErrFlagResolved
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "flag_not_found")
			return dto.ContentFlagResponse{}, ErrFlagNotFound
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolve_failed")
			return dto.ContentFlagResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	flag.Status = nextStatus
	if payload.AdminNotes != nil {
		flag.AdminNotes = payload.AdminNotes
	}

	s.recordEvent(ctx, fmt.Sprintf("content moderated: %s on flag %s", payload.Action, flag.ID), map[string]interface{}{
		"admin_id": action.AdminID,
		"flag_id":  flag.ID,
		"action":   payload.Action,
		"status":   string(nextStatus),
	})

	return dto.NewContentFlagResponse(flag), nil
}

func (s *moderationService) ListPending(ctx context.Context, limit, offset int) (dto.ContentFlagListResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	flags, total, err := s.repo.ListFlags(ctx, models.FlagPending, limit, offset)
	if err != nil {
		return dto.ContentFlagListResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]dto.ContentFlagResponse, 0, len(flags))
	for _, flag := range flags {
		items = append(items, dto.NewContentFlagResponse(flag))
	}

	return dto.ContentFlagListResponse{Items: items, Total: total}, nil
}

func (s *moderationService) ListActions(ctx context.Context, flagID string) ([]dto.ModerationActionResponse, error) {
	flag, err := s.repo.GetFlag(ctx, flagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	actions, err := s.repo.ListActions(ctx, flag.ContentType, flag.ContentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]dto.ModerationActionResponse, 0, len(actions))
	for _, action := range actions {
		items = append(items, dto.NewModerationActionResponse(action))
	}
	return items, nil
}

// recordEvent logs a moderation event into the system log. Failures are
// swallowed: telemetry must never fail the decision that triggered it.
func (s *moderationService) recordEvent(ctx context.Context, message string, metadata map[string]interface{}) {
	if s.events == nil {
		return
	}
	_, err := s.events.Record(ctx, dto.SystemLogCreateRequest{
		Level:     string(models.SeverityInfo),
		Component: "moderation",
		Message:   message,
		Metadata:  metadata,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record moderation event")
	}
}
