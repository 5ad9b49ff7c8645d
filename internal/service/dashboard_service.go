package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

const (
	dashboardSampleSize = 10
	realtimeWindow      = 5 * time.Minute
)

// DashboardService assembles the combined admin views: the landing dashboard,
// lightweight realtime counts, and the scored health report.
type DashboardService interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	Realtime(ctx context.Context) (dto.RealtimeStatsResponse, error)
	Health(ctx context.Context) (dto.HealthReport, error)
}

type dashboardService struct {
	analytics  AnalyticsService
	activities ActivityLogService
	systemLogs SystemLogService
	moderation ModerationService
	actRepo    repository.ActivityLogRepository
	sysRepo    repository.SystemLogRepository
	weights    config.HealthWeights
	startTime  time.Time
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard aggregator.
func NewDashboardService(
	analytics AnalyticsService,
	activities ActivityLogService,
	systemLogs SystemLogService,
	moderation ModerationService,
	actRepo repository.ActivityLogRepository,
	sysRepo repository.SystemLogRepository,
	weights config.HealthWeights,
	startTime time.Time,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		analytics:  analytics,
		activities: activities,
		systemLogs: systemLogs,
		moderation: moderation,
		actRepo:    actRepo,
		sysRepo:    sysRepo,
		weights:    weights,
		startTime:  startTime,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
		now:        time.Now,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	snapshot, err := s.analytics.Snapshot(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recentActivities, err := s.activities.Recent(ctx, dashboardSampleSize)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recentLogs, err := s.systemLogs.Recent(ctx, dashboardSampleSize)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	pending, err := s.moderation.ListPending(ctx, dashboardSampleSize, 0)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	now := s.now()
	return dto.DashboardResponse{
		Analytics:        snapshot,
		RecentActivities: recentActivities,
		RecentLogs:       recentLogs,
		PendingFlags:     pending.Items,
		SystemInfo: dto.SystemInfo{
			UptimeHours: now.Sub(s.startTime).Hours(),
			StartTime:   s.startTime,
			CurrentTime: now,
		},
	}, nil
}

func (s *dashboardService) Realtime(ctx context.Context) (dto.RealtimeStatsResponse, error) {
	snapshot, err := s.analytics.Snapshot(ctx)
	if err != nil {
		return dto.RealtimeStatsResponse{}, err
	}

	now := s.now()
	windowStart := now.Add(-realtimeWindow)

	activityCount, err := s.actRepo.CountSince(ctx, windowStart)
	if err != nil {
		return dto.RealtimeStatsResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logCount, err := s.sysRepo.CountSince(ctx, windowStart)
	if err != nil {
		return dto.RealtimeStatsResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	errorCount, err := s.sysRepo.CountBySeveritySince(ctx, models.SeverityError, windowStart)
	if err != nil {
		return dto.RealtimeStatsResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return dto.RealtimeStatsResponse{
		Timestamp:             now,
		Analytics:             snapshot,
		RecentActivitiesCount: activityCount,
		RecentLogsCount:       logCount,
		ErrorLogsCount:        errorCount,
	}, nil
}

func (s *dashboardService) Health(ctx context.Context) (dto.HealthReport, error) {
	snapshot, err := s.analytics.Snapshot(ctx)
	if err != nil {
		return dto.HealthReport{}, err
	}
	return ScoreHealth(snapshot, s.weights), nil
}
