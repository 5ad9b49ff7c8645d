package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Counters are totals owned by the patient/appointment CRUD layer. The
// telemetry engine folds them into snapshots but never writes them.
type Counters struct {
	TotalUsers        int64
	TotalPatients     int64
	PatientsToday     int64
	TotalAnalyses     int64
	AnalysesToday     int64
	TotalAppointments int64
	AppointmentsToday int64
}

// CounterSource supplies current CRUD totals, polled at snapshot-compute time.
type CounterSource interface {
	Counters(ctx context.Context, dayStart time.Time) (Counters, error)
}

type crudCounterSource struct {
	db *gorm.DB
}

// NewCRUDCounterSource reads counts straight from the CRUD tables. The tables
// are owned by the excluded records layer; this source only ever issues
// SELECT COUNT queries against them.
func NewCRUDCounterSource(db *gorm.DB) CounterSource {
	return &crudCounterSource{db: db}
}

func (s *crudCounterSource) Counters(ctx context.Context, dayStart time.Time) (Counters, error) {
	counters := Counters{}

	tables := []struct {
		name  string
		total *int64
		today *int64
	}{
		{"patients", &counters.TotalPatients, &counters.PatientsToday},
		{"medical_records", &counters.TotalAnalyses, &counters.AnalysesToday},
		{"appointments", &counters.TotalAppointments, &counters.AppointmentsToday},
	}

	for _, table := range tables {
		if err := s.db.WithContext(ctx).Table(table.name).Count(table.total).Error; err != nil {
			return Counters{}, err
		}
		if err := s.db.WithContext(ctx).Table(table.name).
			Where("created_at >= ?", dayStart).
			Count(table.today).Error; err != nil {
			return Counters{}, err
		}
	}

	// Patients double as the user base until a dedicated accounts table exists.
	counters.TotalUsers = counters.TotalPatients

	return counters, nil
}

// StaticCounterSource returns fixed counters; useful for deployments where the
// CRUD store lives behind a separate service boundary.
type StaticCounterSource struct {
	Values Counters
}

func (s StaticCounterSource) Counters(ctx context.Context, dayStart time.Time) (Counters, error) {
	return s.Values, nil
}
