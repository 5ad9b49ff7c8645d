package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ActivityLogFilter narrows activity log queries. A non-zero RetentionCutoff
// hides entries older than the retention window without deleting them.
type ActivityLogFilter struct {
	ActivityType    string
	UserID          string
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	Offset          int
	RetentionCutoff time.Time
}

// ActivityLogRepository persists user activity entries. The store is
// append-only: there is deliberately no update method.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByTypeSince(ctx context.Context, activityType models.ActivityType, since time.Time) (int64, error)
	CountDistinctUsersSince(ctx context.Context, since time.Time) (int64, error)
	StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.ActivityLog) error) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	TrimToLimit(ctx context.Context, max int) (int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if filter.ActivityType != "" {
		query = query.Where("activity_type = ?", filter.ActivityType)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.StartDate != nil {
		query = query.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("timestamp <= ?", *filter.EndDate)
	}
	if !filter.RetentionCutoff.IsZero() {
		query = query.Where("timestamp >= ?", filter.RetentionCutoff)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []models.ActivityLog
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *activityLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *activityLogRepository) CountByTypeSince(ctx context.Context, activityType models.ActivityType, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("activity_type = ?", activityType)
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *activityLogRepository) CountDistinctUsersSince(ctx context.Context, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("user_id IS NOT NULL")
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	var count int64
	err := query.Distinct("user_id").Count(&count).Error
	return count, err
}

func (r *activityLogRepository) StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.ActivityLog) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	// Keyset pagination on (timestamp, id). FindInBatches advances on the
	// primary key alone, which does not follow timestamp order for UUID ids
	// and would skip and repeat rows across batches.
	var lastTimestamp time.Time
	var lastID string
	for {
		query := r.db.WithContext(ctx).
			Where("timestamp >= ? AND timestamp <= ?", start, end).
			Order("timestamp ASC, id ASC").
			Limit(batchSize)
		if lastID != "" {
			query = query.Where("(timestamp, id) > (?, ?)", lastTimestamp, lastID)
		}

		var batch []models.ActivityLog
		if err := query.Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			return nil
		}
		last := batch[len(batch)-1]
		lastTimestamp, lastID = last.Timestamp, last.ID
	}
}

func (r *activityLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}

func (r *activityLogRepository) TrimToLimit(ctx context.Context, max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return 0, err
	}
	excess := total - int64(max)
	if excess <= 0 {
		return 0, nil
	}

	oldest := r.db.Model(&models.ActivityLog{}).
		Select("id").
		Order("timestamp ASC").
		Limit(int(excess))
	result := r.db.WithContext(ctx).
		Where("id IN (?)", oldest).
		Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}
