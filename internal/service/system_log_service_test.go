package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
)

func TestSystemLogServiceRecord(t *testing.T) {
	repo := &fakeSystemLogRepo{}
	svc := NewSystemLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	entry, err := svc.Record(context.Background(), dto.SystemLogCreateRequest{
		Level:     "error",
		Component: "scheduler",
		Message:   "job crashed",
		Metadata:  map[string]interface{}{"api_secret": "xyz", "job": "reminders"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "error", entry.Level)
	require.Equal(t, "***", entry.Metadata["api_secret"])
	require.Equal(t, "reminders", entry.Metadata["job"])
}

func TestSystemLogServiceRecordRejectsBadLevel(t *testing.T) {
	repo := &fakeSystemLogRepo{}
	svc := NewSystemLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	_, err := svc.Record(context.Background(), dto.SystemLogCreateRequest{
		Level:     "catastrophic",
		Component: "scheduler",
		Message:   "boom",
	})
	require.Error(t, err)
	require.Empty(t, repo.entries)
}

func TestSystemLogServiceListFilters(t *testing.T) {
	repo := &fakeSystemLogRepo{}
	svc := NewSystemLogService(repo, validator.New(validator.WithRequiredStructEnabled()), 90, testLogger())

	for _, payload := range []dto.SystemLogCreateRequest{
		{Level: "info", Component: "scheduler", Message: "tick"},
		{Level: "error", Component: "scheduler", Message: "tock"},
		{Level: "error", Component: "billing", Message: "invoice failed"},
	} {
		_, err := svc.Record(context.Background(), payload)
		require.NoError(t, err)
	}

	response, err := svc.List(context.Background(), dto.LogListRequest{Level: "error"})
	require.NoError(t, err)
	require.Equal(t, int64(2), response.Total)

	response, err = svc.List(context.Background(), dto.LogListRequest{Component: "billing"})
	require.NoError(t, err)
	require.Equal(t, int64(1), response.Total)
	require.Equal(t, "invoice failed", response.Items[0].Message)
}
