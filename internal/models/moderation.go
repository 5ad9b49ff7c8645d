package models

import (
	"time"

	"gorm.io/datatypes"
)

// FlagStatus is the moderation state of a content flag.
type FlagStatus string

const (
	FlagPending  FlagStatus = "pending"
	FlagApproved FlagStatus = "approved"
	FlagRejected FlagStatus = "rejected"
)

// Terminal reports whether no further moderation action may change the flag.
func (s FlagStatus) Terminal() bool {
	return s == FlagApproved || s == FlagRejected
}

// ModerationActionType names the decision an admin applies to a flag.
type ModerationActionType string

const (
	ActionApprove  ModerationActionType = "approve"
	ActionReject   ModerationActionType = "reject"
	ActionEscalate ModerationActionType = "escalate"
)

// flagTransitions is the full transition table. Escalation records an audit
// entry but leaves the flag pending; terminal states accept nothing.
var flagTransitions = map[FlagStatus]map[ModerationActionType]FlagStatus{
	FlagPending: {
		ActionApprove:  FlagApproved,
		ActionReject:   FlagRejected,
		ActionEscalate: FlagPending,
	},
}

// NextStatus resolves the status an action would produce. The second return is
// false when the transition is illegal from the current status.
func NextStatus(current FlagStatus, action ModerationActionType) (FlagStatus, bool) {
	next, ok := flagTransitions[current][action]
	return next, ok
}

// ContentFlag marks a piece of content (image, record, comment) for review.
// Status and AdminNotes are the only mutable fields; they change together and
// only through the moderation workflow.
type ContentFlag struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ContentType   string     `gorm:"size:64;not null;index" json:"content_type"`
	ContentID     string     `gorm:"size:64;not null;index" json:"content_id"`
	ReporterID    *string    `gorm:"size:64" json:"reporter_id"`
	ReporterEmail *string    `gorm:"size:255" json:"reporter_email"`
	Reason        string     `gorm:"not null" json:"reason"`
	Description   *string    `json:"description"`
	Status        FlagStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	AdminNotes    *string    `json:"admin_notes"`
	Timestamp     time.Time  `gorm:"not null;index" json:"timestamp"`
}

// TableName keeps the table compatible with the existing dashboard schema.
func (ContentFlag) TableName() string {
	return "content_flags"
}

// ModerationAction is the append-only audit record of a moderation decision.
// It references the flagged content by type and id rather than the flag row,
// so deleting a flag never erases its decision history.
type ModerationAction struct {
	ID         string               `gorm:"primaryKey;size:36" json:"id"`
	AdminID    string               `gorm:"size:64;not null;index" json:"admin_id"`
	AdminEmail string               `gorm:"size:255;not null" json:"admin_email"`
	TargetType string               `gorm:"size:64;not null;index" json:"target_type"`
	TargetID   string               `gorm:"size:64;not null;index" json:"target_id"`
	ActionType ModerationActionType `gorm:"size:32;not null" json:"action_type"`
	Reason     *string              `json:"reason"`
	Status     FlagStatus           `gorm:"size:16;not null" json:"status"`
	Metadata   datatypes.JSONMap    `gorm:"type:json" json:"metadata"`
	Timestamp  time.Time            `gorm:"not null;index" json:"timestamp"`
}

// TableName keeps the table compatible with the existing dashboard schema.
func (ModerationAction) TableName() string {
	return "moderation_actions"
}
