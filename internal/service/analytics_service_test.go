package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

func seedAnalyticsRepos() (*fakeActivityRepo, *fakeSystemLogRepo) {
	now := time.Now()
	activities := &fakeActivityRepo{entries: []models.ActivityLog{
		{ID: "a1", UserID: strPtr("u1"), ActivityType: models.ActivityLogin, Timestamp: now.Add(-time.Hour)},
		{ID: "a2", UserID: strPtr("u2"), ActivityType: models.ActivityAnalysisRequest, Timestamp: now.Add(-30 * time.Minute)},
		{ID: "a3", UserID: strPtr("u1"), ActivityType: models.ActivityAnalysisRequest, Timestamp: now.Add(-48 * time.Hour)},
	}}
	systemLogs := &fakeSystemLogRepo{entries: []models.SystemLog{
		{ID: "s1", Level: models.SeverityError, Component: "scheduler", Timestamp: now.Add(-time.Hour)},
		{ID: "s2", Level: models.SeverityInfo, Component: "scheduler", Timestamp: now.Add(-time.Hour)},
		{ID: "s3", Level: models.SeverityInfo, Component: "billing", Timestamp: now.Add(-2 * time.Hour)},
	}}
	return activities, systemLogs
}

func TestAnalyticsServiceComputesRates(t *testing.T) {
	activities, systemLogs := seedAnalyticsRepos()
	counters := repository.StaticCounterSource{Values: repository.Counters{
		TotalUsers:    12,
		TotalPatients: 12,
		TotalAnalyses: 40,
	}}

	svc := NewAnalyticsService(activities, systemLogs, counters, nil, time.Minute, nil, time.Now().Add(-2*time.Hour), testLogger())

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, snapshot.CacheHit)
	require.Equal(t, int64(12), snapshot.TotalUsers)
	require.Equal(t, int64(2), snapshot.ExternalAPICalls, "all-time analysis requests")
	require.InDelta(t, 100.0/3.0, snapshot.ErrorRate, 0.01, "1 error out of 3 window logs")
	require.InDelta(t, 2.0, snapshot.SystemUptimeHours, 0.1)
	require.False(t, snapshot.GeneratedAt.IsZero())
}

func TestAnalyticsServiceRedisCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	activities, systemLogs := seedAnalyticsRepos()
	counters := repository.StaticCounterSource{Values: repository.Counters{TotalUsers: 7, TotalPatients: 7}}

	svc := NewAnalyticsService(activities, systemLogs, counters, client, time.Minute, nil, time.Now(), testLogger())

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, int64(7), first.TotalUsers)

	// mutate the source; a cached snapshot must not notice
	activities.entries = nil
	systemLogs.entries = nil

	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.ExternalAPICalls, second.ExternalAPICalls)

	// after expiry the snapshot is recomputed from the mutated source
	server.FastForward(2 * time.Minute)

	third, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, third.CacheHit)
	require.Zero(t, third.ExternalAPICalls)
}

func TestAnalyticsServiceLocalCacheFallback(t *testing.T) {
	activities, systemLogs := seedAnalyticsRepos()
	counters := repository.StaticCounterSource{Values: repository.Counters{TotalUsers: 3, TotalPatients: 3}}

	svc := NewAnalyticsService(activities, systemLogs, counters, nil, time.Minute, nil, time.Now(), testLogger())

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit, "without redis the in-process cache serves repeats")

	require.NoError(t, svc.Invalidate(context.Background()))

	third, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, third.CacheHit)
}
