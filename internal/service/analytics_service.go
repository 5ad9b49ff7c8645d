package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/observability"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

const analyticsCacheKey = "analytics:snapshot"

// errorRateWindow is the trailing window the error rate is computed over. The
// same window backs the dashboard and the analytics endpoint so the two never
// disagree.
const errorRateWindow = 24 * time.Hour

// AnalyticsService computes and caches dashboard snapshots. A snapshot is
// always recomputed whole; there is no partial invalidation, so every field in
// a served snapshot describes the same instant.
type AnalyticsService interface {
	Snapshot(ctx context.Context) (dto.AnalyticsSnapshot, error)
	Invalidate(ctx context.Context) error
}

type analyticsService struct {
	activities repository.ActivityLogRepository
	systemLogs repository.SystemLogRepository
	counters   repository.CounterSource
	cache      *redis.Client
	local      *gocache.Cache
	cacheTTL   time.Duration
	latency    *observability.LatencyTracker
	startTime  time.Time
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAnalyticsService constructs the analytics aggregator. startTime is the
// process start injected by the composition root; cache may be nil, in which
// case snapshots are memoized in-process only.
func NewAnalyticsService(
	activities repository.ActivityLogRepository,
	systemLogs repository.SystemLogRepository,
	counters repository.CounterSource,
	cache *redis.Client,
	ttl time.Duration,
	latency *observability.LatencyTracker,
	startTime time.Time,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsService{
		activities: activities,
		systemLogs: systemLogs,
		counters:   counters,
		cache:      cache,
		local:      gocache.New(ttl, 2*ttl),
		cacheTTL:   ttl,
		latency:    latency,
		startTime:  startTime,
		logger:     logger.With().Str("component", "analytics_service").Logger(),
		now:        time.Now,
	}
}

func (s *analyticsService) Snapshot(ctx context.Context) (dto.AnalyticsSnapshot, error) {
	tracer := otel.Tracer("github.com/noah-isme/clinic-admin-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.snapshot")
	span.SetAttributes(attribute.String("analytics.cache_key", analyticsCacheKey))
	defer span.End()

	if snapshot, ok := s.cached(ctx); ok {
		span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
		return snapshot, nil
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot_compute_failed")
		return dto.AnalyticsSnapshot{}, err
	}

	s.store(ctx, snapshot)

	return snapshot, nil
}

func (s *analyticsService) Invalidate(ctx context.Context) error {
	s.local.Delete(analyticsCacheKey)
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, analyticsCacheKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *analyticsService) cached(ctx context.Context) (dto.AnalyticsSnapshot, bool) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, analyticsCacheKey).Result()
		if err == nil {
			var snapshot dto.AnalyticsSnapshot
			if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
				snapshot.CacheHit = true
				return snapshot, true
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
		return dto.AnalyticsSnapshot{}, false
	}

	if value, found := s.local.Get(analyticsCacheKey); found {
		if snapshot, ok := value.(dto.AnalyticsSnapshot); ok {
			snapshot.CacheHit = true
			return snapshot, true
		}
	}
	return dto.AnalyticsSnapshot{}, false
}

// store replaces the cached snapshot whole. Two racing computes may both call
// this; last write wins, which is fine because each payload is self-consistent.
func (s *analyticsService) store(ctx context.Context, snapshot dto.AnalyticsSnapshot) {
	if s.cache != nil {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			return
		}
		if err := s.cache.Set(ctx, analyticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store analytics cache")
		}
		return
	}
	s.local.Set(analyticsCacheKey, snapshot, s.cacheTTL)
}

func (s *analyticsService) compute(ctx context.Context) (dto.AnalyticsSnapshot, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := now.Add(-errorRateWindow)

	counters, err := s.counters.Counters(ctx, dayStart)
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	activeToday, err := s.activities.CountDistinctUsersSince(ctx, dayStart)
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	apiCalls, err := s.activities.CountByTypeSince(ctx, models.ActivityAnalysisRequest, time.Time{})
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	apiCallsToday, err := s.activities.CountByTypeSince(ctx, models.ActivityAnalysisRequest, dayStart)
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	totalLogs, err := s.systemLogs.CountSince(ctx, windowStart)
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	errorLogs, err := s.systemLogs.CountBySeveritySince(ctx, models.SeverityError, windowStart)
	if err != nil {
		return dto.AnalyticsSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	errorRate := 0.0
	if totalLogs > 0 {
		errorRate = float64(errorLogs) / float64(totalLogs) * 100
	}

	avgResponse := 0.0
	if s.latency != nil {
		avgResponse = s.latency.AverageSeconds()
	}

	return dto.AnalyticsSnapshot{
		TotalUsers:            counters.TotalUsers,
		ActiveUsersToday:      activeToday,
		TotalAnalyses:         counters.TotalAnalyses,
		AnalysesToday:         counters.AnalysesToday,
		TotalAppointments:     counters.TotalAppointments,
		AppointmentsToday:     counters.AppointmentsToday,
		TotalPatients:         counters.TotalPatients,
		PatientsToday:         counters.PatientsToday,
		SystemUptimeHours:     now.Sub(s.startTime).Hours(),
		AverageResponseTime:   avgResponse,
		ErrorRate:             errorRate,
		ExternalAPICalls:      apiCalls,
		ExternalAPICallsToday: apiCallsToday,
		GeneratedAt:           now,
		CacheHit:              false,
	}, nil
}
