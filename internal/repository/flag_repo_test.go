package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

func seedFlag(t *testing.T, repo FlagRepository, reason string, age time.Duration) models.ContentFlag {
	t.Helper()
	flag := models.ContentFlag{
		ID:          uuid.NewString(),
		ContentType: "image",
		ContentID:   "img-1",
		Reason:      reason,
		Status:      models.FlagPending,
		Timestamp:   time.Now().Add(-age),
	}
	require.NoError(t, repo.CreateFlag(context.Background(), &flag))
	return flag
}

func TestFlagRepositoryListFIFO(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlagRepository(db)

	seedFlag(t, repo, "newer", time.Hour)
	seedFlag(t, repo, "oldest", 3*time.Hour)
	seedFlag(t, repo, "middle", 2*time.Hour)

	flags, total, err := repo.ListFlags(context.Background(), models.FlagPending, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, "oldest", flags[0].Reason, "queue must be worked oldest first")
	require.Equal(t, "middle", flags[1].Reason)
	require.Equal(t, "newer", flags[2].Reason)
}

func TestFlagRepositoryResolve(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlagRepository(db)
	flag := seedFlag(t, repo, "inappropriate", time.Hour)

	notes := "confirmed"
	action := models.ModerationAction{
		ID:         uuid.NewString(),
		AdminID:    "admin-1",
		AdminEmail: "admin@clinic.example",
		TargetType: flag.ContentType,
		TargetID:   flag.ContentID,
		ActionType: models.ActionApprove,
		Status:     models.FlagApproved,
		Timestamp:  time.Now(),
	}
	require.NoError(t, repo.Resolve(context.Background(), flag.ID, models.FlagApproved, &notes, &action))

	stored, err := repo.GetFlag(context.Background(), flag.ID)
	require.NoError(t, err)
	require.Equal(t, models.FlagApproved, stored.Status)
	require.Equal(t, "confirmed", *stored.AdminNotes)

	actions, err := repo.ListActions(context.Background(), flag.ContentType, flag.ContentID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, models.ActionApprove, actions[0].ActionType)
}

func TestFlagRepositoryResolveKeepsNotes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlagRepository(db)
	flag := seedFlag(t, repo, "graphic content", time.Hour)

	notes := "needs senior review"
	escalate := models.ModerationAction{
		ID: uuid.NewString(), AdminID: "a1", AdminEmail: "a1@clinic.example",
		TargetType: flag.ContentType, TargetID: flag.ContentID,
		ActionType: models.ActionEscalate, Status: models.FlagPending, Timestamp: time.Now(),
	}
	require.NoError(t, repo.Resolve(context.Background(), flag.ID, models.FlagPending, &notes, &escalate))

	reject := models.ModerationAction{
		ID: uuid.NewString(), AdminID: "a2", AdminEmail: "a2@clinic.example",
		TargetType: flag.ContentType, TargetID: flag.ContentID,
		ActionType: models.ActionReject, Status: models.FlagRejected, Timestamp: time.Now(),
	}
	require.NoError(t, repo.Resolve(context.Background(), flag.ID, models.FlagRejected, nil, &reject))

	stored, err := repo.GetFlag(context.Background(), flag.ID)
	require.NoError(t, err)
	require.Equal(t, models.FlagRejected, stored.Status)
	require.NotNil(t, stored.AdminNotes, "decision without notes keeps the escalation notes")
	require.Equal(t, "needs senior review", *stored.AdminNotes)
}

func TestFlagRepositoryResolveAlreadyDecided(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlagRepository(db)
	flag := seedFlag(t, repo, "spam", time.Hour)

	first := models.ModerationAction{
		ID: uuid.NewString(), AdminID: "a1", AdminEmail: "a1@clinic.example",
		TargetType: flag.ContentType, TargetID: flag.ContentID,
		ActionType: models.ActionReject, Status: models.FlagRejected, Timestamp: time.Now(),
	}
	require.NoError(t, repo.Resolve(context.Background(), flag.ID, models.FlagRejected, nil, &first))

	second := models.ModerationAction{
		ID: uuid.NewString(), AdminID: "a2", AdminEmail: "a2@clinic.example",
		TargetType: flag.ContentType, TargetID: flag.ContentID,
		ActionType: models.ActionApprove, Status: models.FlagApproved, Timestamp: time.Now(),
	}
	err := repo.Resolve(context.Background(), flag.ID, models.FlagApproved, nil, &second)
	require.ErrorIs(t, err, ErrFlagNotPending)

	// the losing decision leaves no trace: status and audit are untouched
	stored, err := repo.GetFlag(context.Background(), flag.ID)
	require.NoError(t, err)
	require.Equal(t, models.FlagRejected, stored.Status)

	actions, err := repo.ListActions(context.Background(), flag.ContentType, flag.ContentID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
}

func TestFlagRepositoryResolveMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlagRepository(db)

	action := models.ModerationAction{
		ID: uuid.NewString(), AdminID: "a1", AdminEmail: "a1@clinic.example",
		TargetType: "image", TargetID: "img-9",
		ActionType: models.ActionApprove, Status: models.FlagApproved, Timestamp: time.Now(),
	}
	err := repo.Resolve(context.Background(), uuid.NewString(), models.FlagApproved, nil, &action)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
