package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(120);not null"`
	DaysPerYear int       `gorm:"type:int;not null"`
	Description string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string { return "leave_types" }
