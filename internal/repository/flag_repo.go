package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ErrFlagNotPending signals a guarded resolve found the flag in a state other
// than pending, so neither the status update nor the audit insert happened.
var ErrFlagNotPending = errors.New("flag is not pending")

// FlagRepository persists content flags and their moderation audit trail.
// Flag status (with admin notes) is the only mutable data it manages, and it
// changes exclusively through Resolve.
type FlagRepository interface {
	CreateFlag(ctx context.Context, flag *models.ContentFlag) error
	GetFlag(ctx context.Context, id string) (models.ContentFlag, error)
	ListFlags(ctx context.Context, status models.FlagStatus, limit, offset int) ([]models.ContentFlag, int64, error)
	ListActions(ctx context.Context, targetType, targetID string) ([]models.ModerationAction, error)
	CreateAction(ctx context.Context, action *models.ModerationAction) error
	Resolve(ctx context.Context, flagID string, status models.FlagStatus, notes *string, action *models.ModerationAction) error
}

type flagRepository struct {
	db *gorm.DB
}

// NewFlagRepository constructs the flag repository.
func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) CreateFlag(ctx context.Context, flag *models.ContentFlag) error {
	return r.db.WithContext(ctx).Create(flag).Error
}

func (r *flagRepository) GetFlag(ctx context.Context, id string) (models.ContentFlag, error) {
	var flag models.ContentFlag
	err := r.db.WithContext(ctx).First(&flag, "id = ?", id).Error
	return flag, err
}

func (r *flagRepository) ListFlags(ctx context.Context, status models.FlagStatus, limit, offset int) ([]models.ContentFlag, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentFlag{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	// Oldest first so the moderation queue is worked in FIFO order.
	var flags []models.ContentFlag
	if err := query.Order("timestamp ASC").Find(&flags).Error; err != nil {
		return nil, 0, err
	}

	return flags, total, nil
}

func (r *flagRepository) ListActions(ctx context.Context, targetType, targetID string) ([]models.ModerationAction, error) {
	var actions []models.ModerationAction
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("timestamp ASC").
		Find(&actions).Error
	return actions, err
}

func (r *flagRepository) CreateAction(ctx context.Context, action *models.ModerationAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// Resolve applies a moderation decision atomically: the status update is
// guarded on the flag still being pending, and the audit record is inserted in
// the same transaction. Of two concurrent resolves against one flag, exactly
// one commits; the other gets ErrFlagNotPending.
func (r *flagRepository) Resolve(ctx context.Context, flagID string, status models.FlagStatus, notes *string, action *models.ModerationAction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if notes != nil {
			// A decision without notes keeps whatever an earlier
			// escalation recorded.
			updates["admin_notes"] = notes
		}
		result := tx.Model(&models.ContentFlag{}).
			Where("id = ? AND status = ?", flagID, models.FlagPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var flag models.ContentFlag
			if err := tx.First(&flag, "id = ?", flagID).Error; err != nil {
				return err
			}
			return ErrFlagNotPending
		}

		return tx.Create(action).Error
	})
}
