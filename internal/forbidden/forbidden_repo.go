package forbidden

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/tenant"
)

//go:generate mockgen -source=forbidden_repo.go -destination=mock/forbidden_repo_mock.go -package=mock
type Repository interface {
	AddDates(ctx context.Context, teamID string, dates []time.Time, note string) error
	// FirstInRange returns the earliest forbidden day inside the range,
	// or nil when the range is clear.
	FirstInRange(ctx context.Context, teamID string, start, end time.Time) (*ForbiddenDate, error)
	Remove(ctx context.Context, teamID string, date time.Time) (bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]ForbiddenDate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddDates(ctx context.Context, teamID string, dates []time.Time, note string) error {
	for _, d := range dates {
		// Re-forbidding a day is a no-op, the original note stays.
		err := r.db.WithContext(ctx).Exec(`
			INSERT INTO forbidden_dates (id, team_id, date, note, created_at)
			VALUES (?, ?, ?, ?, now())
			ON CONFLICT (team_id, date) DO NOTHING
		`, uuid.NewString(), teamID, d.Format("2006-01-02"), note).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FirstInRange(ctx context.Context, teamID string, start, end time.Time) (*ForbiddenDate, error) {
	var fd ForbiddenDate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		Where("date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC").
		First(&fd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fd, nil
}

func (r *repository) Remove(ctx context.Context, teamID string, date time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		Where("date = ?", date.Format("2006-01-02")).
		Delete(&ForbiddenDate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListByTeam(ctx context.Context, teamID string) ([]ForbiddenDate, error) {
	var dates []ForbiddenDate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		Order("date ASC").
		Find(&dates).Error
	return dates, err
}
