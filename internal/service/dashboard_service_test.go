package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

func newDashboardFixture(t *testing.T) (DashboardService, *fakeActivityRepo, *fakeSystemLogRepo, *fakeFlagRepo) {
	t.Helper()
	activities := &fakeActivityRepo{}
	systemLogs := &fakeSystemLogRepo{}
	flags := newFakeFlagRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())

	counters := repository.StaticCounterSource{Values: repository.Counters{TotalUsers: 5, TotalPatients: 5}}
	analytics := NewAnalyticsService(activities, systemLogs, counters, nil, time.Minute, nil, time.Now().Add(-time.Hour), testLogger())
	activitySvc := NewActivityLogService(activities, validate, 90, testLogger())
	systemSvc := NewSystemLogService(systemLogs, validate, 90, testLogger())
	moderationSvc := NewModerationService(flags, validate, nil, testLogger())

	svc := NewDashboardService(analytics, activitySvc, systemSvc, moderationSvc, activities, systemLogs, config.DefaultHealthWeights(), time.Now().Add(-time.Hour), testLogger())
	return svc, activities, systemLogs, flags
}

func TestDashboardServiceAssemblesSections(t *testing.T) {
	svc, activities, systemLogs, flags := newDashboardFixture(t)
	now := time.Now()

	activities.entries = []models.ActivityLog{
		{ID: "a1", ActivityType: models.ActivityLogin, Description: "signed in", Timestamp: now.Add(-time.Minute)},
	}
	systemLogs.entries = []models.SystemLog{
		{ID: "s1", Level: models.SeverityInfo, Component: "startup", Message: "booted", Timestamp: now.Add(-time.Minute)},
	}
	flag := models.ContentFlag{ID: "f1", ContentType: "image", ContentID: "i1", Reason: "check", Status: models.FlagPending, Timestamp: now}
	require.NoError(t, flags.CreateFlag(context.Background(), &flag))

	response, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), response.Analytics.TotalUsers)
	require.Len(t, response.RecentActivities, 1)
	require.Len(t, response.RecentLogs, 1)
	require.Len(t, response.PendingFlags, 1)
	require.InDelta(t, 1.0, response.SystemInfo.UptimeHours, 0.1)
	require.False(t, response.SystemInfo.CurrentTime.IsZero())
}

func TestDashboardServiceRealtimeCountsWindow(t *testing.T) {
	svc, activities, systemLogs, _ := newDashboardFixture(t)
	now := time.Now()

	activities.entries = []models.ActivityLog{
		{ID: "a1", ActivityType: models.ActivityLogin, Timestamp: now.Add(-time.Minute)},
		{ID: "a2", ActivityType: models.ActivityLogin, Timestamp: now.Add(-time.Hour)},
	}
	systemLogs.entries = []models.SystemLog{
		{ID: "s1", Level: models.SeverityError, Component: "x", Timestamp: now.Add(-2 * time.Minute)},
		{ID: "s2", Level: models.SeverityInfo, Component: "x", Timestamp: now.Add(-time.Minute)},
		{ID: "s3", Level: models.SeverityError, Component: "x", Timestamp: now.Add(-time.Hour)},
	}

	stats, err := svc.Realtime(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.RecentActivitiesCount)
	require.Equal(t, int64(2), stats.RecentLogsCount)
	require.Equal(t, int64(1), stats.ErrorLogsCount)
	require.False(t, stats.Timestamp.IsZero())
}

func TestDashboardServiceHealthUsesSnapshot(t *testing.T) {
	svc, _, systemLogs, _ := newDashboardFixture(t)
	now := time.Now()

	// all recent logs are errors, so the error rate pins at 100
	systemLogs.entries = []models.SystemLog{
		{ID: "s1", Level: models.SeverityError, Component: "x", Timestamp: now.Add(-time.Minute)},
		{ID: "s2", Level: models.SeverityError, Component: "x", Timestamp: now.Add(-2 * time.Minute)},
	}

	report, err := svc.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, HealthStatusWarning, report.Status)
	require.Equal(t, 60.0, report.HealthScore)
}
