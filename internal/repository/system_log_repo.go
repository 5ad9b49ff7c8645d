package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// SystemLogFilter narrows system log queries.
type SystemLogFilter struct {
	Level           string
	Component       string
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	Offset          int
	RetentionCutoff time.Time
}

// SystemLogRepository persists internal system events. Append-only, like the
// activity store; severity counts over a trailing window feed the error rate.
type SystemLogRepository interface {
	Create(ctx context.Context, entry *models.SystemLog) error
	List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountBySeveritySince(ctx context.Context, level models.Severity, since time.Time) (int64, error)
	StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.SystemLog) error) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	TrimToLimit(ctx context.Context, max int) (int64, error)
}

type systemLogRepository struct {
	db *gorm.DB
}

// NewSystemLogRepository constructs the system log repository.
func NewSystemLogRepository(db *gorm.DB) SystemLogRepository {
	return &systemLogRepository{db: db}
}

func (r *systemLogRepository) Create(ctx context.Context, entry *models.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *systemLogRepository) List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{})

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Component != "" {
		query = query.Where("component = ?", filter.Component)
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

	var entries []models.SystemLog
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *systemLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{})
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *systemLogRepository) CountBySeveritySince(ctx context.Context, level models.Severity, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{}).Where("level = ?", level)
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *systemLogRepository) StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.SystemLog) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	// Keyset pagination on (timestamp, id), same reasoning as the activity
	// log repository: FindInBatches paginates on the primary key, which does
	// not follow timestamp order for UUID ids.
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

		var batch []models.SystemLog
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

func (r *systemLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

func (r *systemLogRepository) TrimToLimit(ctx context.Context, max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SystemLog{}).Count(&total).Error; err != nil {
		return 0, err
	}
	excess := total - int64(max)
	if excess <= 0 {
		return 0, nil
	}

	oldest := r.db.Model(&models.SystemLog{}).
		Select("id").
		Order("timestamp ASC").
		Limit(int(excess))
	result := r.db.WithContext(ctx).
		Where("id IN (?)", oldest).
		Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
