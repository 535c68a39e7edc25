package decision

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// PendingAdminAction is the single decision slot per admin. Starting a
// new decision replaces the previous one, so an admin is always
// deciding at most one request at a time.
type PendingAdminAction struct {
	AdminID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;not null"`
	Action    string    `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PendingAdminAction) TableName() string { return "pending_admin_actions" }
