package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeActivityRepo keeps entries in memory and mimics the repository query
// semantics closely enough for the service tests.
type fakeActivityRepo struct {
	entries   []models.ActivityLog
	createErr error
}

func (r *fakeActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	matched := make([]models.ActivityLog, 0)
	for _, entry := range r.entries {
		if filter.ActivityType != "" && string(entry.ActivityType) != filter.ActivityType {
			continue
		}
		if filter.UserID != "" && (entry.UserID == nil || *entry.UserID != filter.UserID) {
			continue
		}
		if !filter.RetentionCutoff.IsZero() && entry.Timestamp.Before(filter.RetentionCutoff) {
			continue
		}
		matched = append(matched, entry)
	}
	total := int64(len(matched))
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeActivityRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if since.IsZero() || !entry.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountByTypeSince(ctx context.Context, activityType models.ActivityType, since time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if entry.ActivityType != activityType {
			continue
		}
		if since.IsZero() || !entry.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivityRepo) CountDistinctUsersSince(ctx context.Context, since time.Time) (int64, error) {
	seen := map[string]struct{}{}
	for _, entry := range r.entries {
		if entry.UserID == nil {
			continue
		}
		if since.IsZero() || !entry.Timestamp.Before(since) {
			seen[*entry.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeActivityRepo) StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.ActivityLog) error) error {
	batch := make([]models.ActivityLog, 0)
	for _, entry := range r.entries {
		if entry.Timestamp.Before(start) || entry.Timestamp.After(end) {
			continue
		}
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return nil
	}
	return fn(batch)
}

func (r *fakeActivityRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := r.entries[:0]
	var purged int64
	for _, entry := range r.entries {
		if entry.Timestamp.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return purged, nil
}

func (r *fakeActivityRepo) TrimToLimit(ctx context.Context, max int) (int64, error) {
	if max <= 0 || len(r.entries) <= max {
		return 0, nil
	}
	trimmed := int64(len(r.entries) - max)
	r.entries = r.entries[len(r.entries)-max:]
	return trimmed, nil
}

// fakeSystemLogRepo mirrors fakeActivityRepo for system events.
type fakeSystemLogRepo struct {
	entries   []models.SystemLog
	createErr error
}

func (r *fakeSystemLogRepo) Create(ctx context.Context, entry *models.SystemLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeSystemLogRepo) List(ctx context.Context, filter repository.SystemLogFilter) ([]models.SystemLog, int64, error) {
	matched := make([]models.SystemLog, 0)
	for _, entry := range r.entries {
		if filter.Level != "" && string(entry.Level) != filter.Level {
			continue
		}
		if filter.Component != "" && entry.Component != filter.Component {
			continue
		}
		matched = append(matched, entry)
	}
	total := int64(len(matched))
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeSystemLogRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if since.IsZero() || !entry.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSystemLogRepo) CountBySeveritySince(ctx context.Context, level models.Severity, since time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if entry.Level != level {
			continue
		}
		if since.IsZero() || !entry.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSystemLogRepo) StreamRange(ctx context.Context, start, end time.Time, batchSize int, fn func(entries []models.SystemLog) error) error {
	batch := make([]models.SystemLog, 0)
	for _, entry := range r.entries {
		if entry.Timestamp.Before(start) || entry.Timestamp.After(end) {
			continue
		}
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return nil
	}
	return fn(batch)
}

func (r *fakeSystemLogRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := r.entries[:0]
	var purged int64
	for _, entry := range r.entries {
		if entry.Timestamp.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return purged, nil
}

func (r *fakeSystemLogRepo) TrimToLimit(ctx context.Context, max int) (int64, error) {
	if max <= 0 || len(r.entries) <= max {
		return 0, nil
	}
	trimmed := int64(len(r.entries) - max)
	r.entries = r.entries[len(r.entries)-max:]
	return trimmed, nil
}

func strPtr(v string) *string {
	return &v
}
