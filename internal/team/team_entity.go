package team

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting rows use a composite text key "<short-key>:<team-id>" so one
// table can hold every per-team knob.
type Setting struct {
	Key   string `gorm:"type:varchar(120);primaryKey"`
	Value string `gorm:"type:text;not null"`
}

func (Setting) TableName() string { return "settings" }

const DefaultTeamName = "Default Team"

// Short setting keys. Values are stored as text like every other row.
const (
	SettingAnnualQuota   = "max_year_days"
	SettingPerRequestCap = "max_single_days"
	SettingOverlapPolicy = "overlap_policy"
)

const (
	OverlapAllowAll     = "allow_all"
	OverlapDenyAll      = "deny_all"
	OverlapDenySameRole = "deny_same_role"
)

const (
	DefaultAnnualQuota   = 28
	DefaultPerRequestCap = 14
	DefaultOverlapPolicy = OverlapAllowAll
)

func SettingKey(shortKey, teamID string) string {
	return shortKey + ":" + teamID
}
