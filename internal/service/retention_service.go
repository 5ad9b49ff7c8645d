package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

// RetentionService purges log entries past the retention window and trims the
// stores to the configured maximum. Flags and moderation actions are exempt:
// the audit trail has no retention cutoff.
type RetentionService interface {
	Sweep(ctx context.Context) error
}

type retentionService struct {
	activities    repository.ActivityLogRepository
	systemLogs    repository.SystemLogRepository
	retentionDays int
	maxEntries    int
	logger        zerolog.Logger
	now           func() time.Time
}

// NewRetentionService constructs the retention sweeper.
func NewRetentionService(activities repository.ActivityLogRepository, systemLogs repository.SystemLogRepository, retentionDays, maxEntries int, logger zerolog.Logger) RetentionService {
	return &retentionService{
		activities:    activities,
		systemLogs:    systemLogs,
		retentionDays: retentionDays,
		maxEntries:    maxEntries,
		logger:        logger.With().Str("component", "retention_service").Logger(),
		now:           time.Now,
	}
}

func (s *retentionService) Sweep(ctx context.Context) error {
	var purged, trimmed int64

	if s.retentionDays > 0 {
		cutoff := s.now().AddDate(0, 0, -s.retentionDays)

		n, err := s.activities.PurgeBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		purged += n

		n, err = s.systemLogs.PurgeBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		purged += n
	}

	if s.maxEntries > 0 {
		n, err := s.activities.TrimToLimit(ctx, s.maxEntries)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		trimmed += n

		n, err = s.systemLogs.TrimToLimit(ctx, s.maxEntries)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		trimmed += n
	}

	if purged > 0 || trimmed > 0 {
		s.logger.Info().Int64("purged", purged).Int64("trimmed", trimmed).Msg("retention sweep completed")
	}

	return nil
}
