package member

import (
	"time"

	"github.com/google/uuid"
)

// User is a team member. ExternalID is nil for placeholders created by
// an invite; it is filled in the first time that person contacts the
// service with a matching handle.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalID *string   `gorm:"type:varchar(64);uniqueIndex"`
	Handle     string    `gorm:"type:varchar(120);not null;index"`
	FullName   string    `gorm:"type:varchar(200);not null"`
	Role       string    `gorm:"type:varchar(30);not null"`
	TeamID     uuid.UUID `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
