package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ActivityLogCreateRequest captures an activity ingest payload. Identifier and
// timestamp are server-assigned when absent.
type ActivityLogCreateRequest struct {
	UserID       *string                `json:"user_id"`
	UserEmail    *string                `json:"user_email" validate:"omitempty,email"`
	ActivityType string                 `json:"activity_type" validate:"required,oneof=login logout image_upload analysis_request report_generation appointment_booking patient_creation medical_record_creation admin_action other"`
	Description  string                 `json:"description" validate:"required,min=1"`
	IPAddress    *string                `json:"ip_address"`
	UserAgent    *string                `json:"user_agent"`
	Metadata     map[string]interface{} `json:"metadata" validate:"omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	SessionID    *string                `json:"session_id"`
}

// SystemLogCreateRequest captures a system event ingest payload.
type SystemLogCreateRequest struct {
	Level      string                 `json:"level" validate:"required,oneof=debug info warning error"`
	Component  string                 `json:"component" validate:"required,min=1"`
	Message    string                 `json:"message" validate:"required,min=1"`
	StackTrace *string                `json:"stack_trace"`
	Metadata   map[string]interface{} `json:"metadata" validate:"omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// LogListRequest defines filters shared by the activity and system log reads.
type LogListRequest struct {
	ActivityType string
	Level        string
	Component    string
	UserID       string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

// ActivityLogResponse serializes a stored activity entry.
type ActivityLogResponse struct {
	ID           string                 `json:"id"`
	UserID       *string                `json:"user_id"`
	UserEmail    *string                `json:"user_email"`
	ActivityType string                 `json:"activity_type"`
	Description  string                 `json:"description"`
	IPAddress    *string                `json:"ip_address"`
	UserAgent    *string                `json:"user_agent"`
	Metadata     map[string]interface{} `json:"metadata"`
	Timestamp    time.Time              `json:"timestamp"`
	SessionID    *string                `json:"session_id"`
}

// ActivityLogListResponse wraps a filtered activity read.
type ActivityLogListResponse struct {
	Items []ActivityLogResponse `json:"items"`
	Total int64                 `json:"total"`
}

// SystemLogResponse serializes a stored system event.
type SystemLogResponse struct {
	ID         string                 `json:"id"`
	Level      string                 `json:"level"`
	Component  string                 `json:"component"`
	Message    string                 `json:"message"`
	StackTrace *string                `json:"stack_trace"`
	Metadata   map[string]interface{} `json:"metadata"`
	Timestamp  time.Time              `json:"timestamp"`
}

// SystemLogListResponse wraps a filtered system log read.
type SystemLogListResponse struct {
	Items []SystemLogResponse `json:"items"`
	Total int64               `json:"total"`
}

// NewActivityLogResponse converts a model into a DTO.
func NewActivityLogResponse(entry models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:           entry.ID,
		UserID:       entry.UserID,
		UserEmail:    entry.UserEmail,
		ActivityType: string(entry.ActivityType),
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Metadata:     metadataFromJSON(entry.Metadata),
		Timestamp:    entry.Timestamp,
		SessionID:    entry.SessionID,
	}
}

// NewSystemLogResponse converts a model into a DTO.
func NewSystemLogResponse(entry models.SystemLog) SystemLogResponse {
	return SystemLogResponse{
		ID:         entry.ID,
		Level:      string(entry.Level),
		Component:  entry.Component,
		Message:    entry.Message,
		StackTrace: entry.StackTrace,
		Metadata:   metadataFromJSON(entry.Metadata),
		Timestamp:  entry.Timestamp,
	}
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}
