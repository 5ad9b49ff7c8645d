package dto

import (
	"time"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

// ContentFlagCreateRequest captures a new flag submission.
type ContentFlagCreateRequest struct {
	ContentType   string  `json:"content_type" validate:"required,min=1"`
	ContentID     string  `json:"content_id" validate:"required,min=1"`
	Reason        string  `json:"reason" validate:"required,min=1"`
	ReporterID    *string `json:"reporter_id"`
	ReporterEmail *string `json:"reporter_email" validate:"omitempty,email"`
	Description   *string `json:"description"`
}

// ModerationDecisionRequest captures an admin decision applied to a flag.
type ModerationDecisionRequest struct {
	AdminID    string                 `json:"admin_id" validate:"required,min=1"`
	AdminEmail string                 `json:"admin_email" validate:"required,email"`
	Action     string                 `json:"action" validate:"required,oneof=approve reject escalate"`
	Reason     *string                `json:"reason"`
	AdminNotes *string                `json:"admin_notes"`
	Metadata   map[string]interface{} `json:"metadata" validate:"omitempty"`
}

// ContentFlagResponse serializes a flag for admin clients.
type ContentFlagResponse struct {
	ID            string    `json:"id"`
	ContentType   string    `json:"content_type"`
	ContentID     string    `json:"content_id"`
	ReporterID    *string   `json:"reporter_id"`
	ReporterEmail *string   `json:"reporter_email"`
	Reason        string    `json:"reason"`
	Description   *string   `json:"description"`
	Status        string    `json:"status"`
	AdminNotes    *string   `json:"admin_notes"`
	Timestamp     time.Time `json:"timestamp"`
}

// ContentFlagListResponse wraps a paginated flag listing.
type ContentFlagListResponse struct {
	Items []ContentFlagResponse `json:"items"`
	Total int64                 `json:"total"`
}

// ModerationActionResponse serializes an audit record.
type ModerationActionResponse struct {
	ID         string                 `json:"id"`
	AdminID    string                 `json:"admin_id"`
	AdminEmail string                 `json:"admin_email"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	ActionType string                 `json:"action_type"`
	Reason     *string                `json:"reason"`
	Status     string                 `json:"status"`
	Metadata   map[string]interface{} `json:"metadata"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewContentFlagResponse converts a model into a DTO.
func NewContentFlagResponse(flag models.ContentFlag) ContentFlagResponse {
	return ContentFlagResponse{
		ID:            flag.ID,
		ContentType:   flag.ContentType,
		ContentID:     flag.ContentID,
		ReporterID:    flag.ReporterID,
		ReporterEmail: flag.ReporterEmail,
		Reason:        flag.Reason,
		Description:   flag.Description,
		Status:        string(flag.Status),
		AdminNotes:    flag.AdminNotes,
		Timestamp:     flag.Timestamp,
	}
}

// NewModerationActionResponse converts a model into a DTO.
func NewModerationActionResponse(action models.ModerationAction) ModerationActionResponse {
	return ModerationActionResponse{
		ID:         action.ID,
		AdminID:    action.AdminID,
		AdminEmail: action.AdminEmail,
		TargetType: action.TargetType,
		TargetID:   action.TargetID,
		ActionType: string(action.ActionType),
		Reason:     action.Reason,
		Status:     string(action.Status),
		Metadata:   metadataFromJSON(action.Metadata),
		Timestamp:  action.Timestamp,
	}
}
