package app

import (
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/decision"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/forbidden"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/leavetype"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/member"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/request"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

// migrate keeps the schema in step with the entities. The outbox and
// counter tables are raw SQL because their repositories bypass gorm.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&team.Team{},
		&team.Setting{},
		&member.User{},
		&leavetype.LeaveType{},
		&forbidden.ForbiddenDate{},
		&request.Request{},
		&decision.PendingAdminAction{},
	); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id uuid PRIMARY KEY,
			request_id text,
			aggregate_type text NOT NULL,
			aggregate_id uuid NOT NULL,
			event_type text NOT NULL,
			topic text NOT NULL,
			payload jsonb NOT NULL,
			status text NOT NULL DEFAULT 'pending',
			retry_count int NOT NULL DEFAULT 0,
			error_message text,
			next_retry_at timestamptz,
			processed_at timestamptz,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`).Error; err != nil {
		return err
	}

	return db.Exec(`
		CREATE TABLE IF NOT EXISTS team_counters (
			team_id uuid NOT NULL,
			counter_type text NOT NULL,
			last_value bigint NOT NULL DEFAULT 0,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (team_id, counter_type)
		)
	`).Error
}
