package models

import (
	"time"

	"gorm.io/datatypes"
)

// Severity grades system log entries.
type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether the severity is one of the allowed levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityDebug, SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// SystemLog is an append-only record of an internal event emitted by a named
// component. Error-severity rows feed the error-rate metric.
type SystemLog struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	Level      Severity          `gorm:"size:16;not null;index" json:"level"`
	Component  string            `gorm:"size:128;not null;index" json:"component"`
	Message    string            `gorm:"not null" json:"message"`
	StackTrace *string           `json:"stack_trace"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Timestamp  time.Time         `gorm:"not null;index" json:"timestamp"`
}

// TableName keeps the table compatible with the existing dashboard schema.
func (SystemLog) TableName() string {
	return "system_logs"
}
