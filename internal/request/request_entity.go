package request

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Request is a leave request. Number is a per-team sequence shown to
// users; the UUID stays internal.
type Request struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number int64     `gorm:"type:bigint;not null;index:idx_requests_team_number"`
	TeamID uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_team_number;index:idx_requests_team_status"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	TotalDays   int       `gorm:"type:int;not null"`

	Comment      string `gorm:"type:text"`
	AdminComment string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending';index:idx_requests_team_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Request) TableName() string { return "leave_requests" }
