package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
)

func TestActivityLogServiceRecord(t *testing.T) {
	repo := &fakeActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityLogService(repo, validate, 90, testLogger())

	entry, err := svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		UserID:       strPtr("user-1"),
		ActivityType: "login",
		Description:  "signed in",
		Metadata: map[string]interface{}{
			"device":        "tablet",
			"access_token":  "abc123",
			"user_password": "hunter2",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.Timestamp.IsZero(), "missing timestamp must be filled server-side")
	require.Equal(t, "tablet", entry.Metadata["device"])
	require.Equal(t, "***", entry.Metadata["access_token"])
	require.Equal(t, "***", entry.Metadata["user_password"])
	require.Len(t, repo.entries, 1)
}

func TestActivityLogServiceRecordKeepsClientTimestamp(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entry, err := svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "appointment_booking",
		Description:  "booked a slot",
		Timestamp:    stamp,
	})
	require.NoError(t, err)
	require.True(t, entry.Timestamp.Equal(stamp))
}

func TestActivityLogServiceRecordRejectsUnknownType(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	_, err := svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "teleportation",
		Description:  "should not pass",
	})
	require.Error(t, err)
	require.Empty(t, repo.entries)

	_, err = svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "login",
	})
	require.Error(t, err, "description is required")
}

func TestActivityLogServiceRecordPersistenceFailure(t *testing.T) {
	repo := &fakeActivityRepo{createErr: errors.New("disk full")}
	svc := NewActivityLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	_, err := svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "login",
		Description:  "signed in",
	})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestActivityLogServiceListAppliesRetentionWindow(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 30, testLogger())

	_, err := svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "login",
		Description:  "recent",
	})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), dto.ActivityLogCreateRequest{
		ActivityType: "login",
		Description:  "ancient",
		Timestamp:    time.Now().AddDate(0, 0, -60),
	})
	require.NoError(t, err)

	response, err := svc.List(context.Background(), dto.LogListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), response.Total, "entries past retention are hidden from reads")
	require.Equal(t, "recent", response.Items[0].Description)
}
