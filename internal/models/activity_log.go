package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityType classifies user-facing actions tracked by the telemetry engine.
// The set is closed; ActivityOther plus the free-text description is the escape
// hatch for events that predate a dedicated type.
type ActivityType string

const (
	ActivityLogin                 ActivityType = "login"
	ActivityLogout                ActivityType = "logout"
	ActivityImageUpload           ActivityType = "image_upload"
	ActivityAnalysisRequest       ActivityType = "analysis_request"
	ActivityReportGeneration      ActivityType = "report_generation"
	ActivityAppointmentBooking    ActivityType = "appointment_booking"
	ActivityPatientCreation       ActivityType = "patient_creation"
	ActivityMedicalRecordCreation ActivityType = "medical_record_creation"
	ActivityAdminAction           ActivityType = "admin_action"
	ActivityOther                 ActivityType = "other"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityLogin:                 {},
	ActivityLogout:                {},
	ActivityImageUpload:           {},
	ActivityAnalysisRequest:       {},
	ActivityReportGeneration:      {},
	ActivityAppointmentBooking:    {},
	ActivityPatientCreation:       {},
	ActivityMedicalRecordCreation: {},
	ActivityAdminAction:           {},
	ActivityOther:                 {},
}

// Valid reports whether the activity type belongs to the closed set.
func (t ActivityType) Valid() bool {
	_, ok := activityTypes[t]
	return ok
}

// ActivityLog is an append-only record of a user-facing action. Rows are never
// updated after creation.
type ActivityLog struct {
	ID           string            `gorm:"primaryKey;size:36" json:"id"`
	UserID       *string           `gorm:"size:64;index" json:"user_id"`
	UserEmail    *string           `gorm:"size:255" json:"user_email"`
	ActivityType ActivityType      `gorm:"size:64;not null;index" json:"activity_type"`
	Description  string            `gorm:"not null" json:"description"`
	IPAddress    *string           `gorm:"size:64" json:"ip_address"`
	UserAgent    *string           `gorm:"size:512" json:"user_agent"`
	Metadata     datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Timestamp    time.Time         `gorm:"not null;index" json:"timestamp"`
	SessionID    *string           `gorm:"size:64" json:"session_id"`
}

// TableName keeps the table compatible with the existing dashboard schema.
func (ActivityLog) TableName() string {
	return "user_activity_logs"
}
