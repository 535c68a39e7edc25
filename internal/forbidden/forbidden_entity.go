package forbidden

import (
	"time"

	"github.com/google/uuid"
)

// ForbiddenDate is one blocked calendar day. Ranges are stored as one
// row per day so lookups and removals stay trivial.
type ForbiddenDate struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_forbidden_team_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uq_forbidden_team_date"`
	Note   string    `gorm:"type:text"`

	CreatedAt time.Time
}

func (ForbiddenDate) TableName() string { return "forbidden_dates" }
