package team

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=team_repo.go -destination=mock/team_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateTeam(ctx context.Context, t *Team) error
	FindTeamByID(ctx context.Context, id string) (*Team, error)
	FindTeamByName(ctx context.Context, name string) (*Team, error)
	EnsureDefaultTeam(ctx context.Context) (*Team, error)
	GetSetting(ctx context.Context, key string) (string, bool, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) CreateTeam(ctx context.Context, t *Team) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO teams (id, name, created_at, updated_at)
			VALUES ($1, $2, now(), now())
		`, t.ID, t.Name)
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindTeamByID(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindTeamByName(ctx context.Context, name string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EnsureDefaultTeam creates the fallback team on first use. Members who
// contact the service without an invite land here.
func (r *repository) EnsureDefaultTeam(ctx context.Context) (*Team, error) {
	t, err := r.FindTeamByName(ctx, DefaultTeamName)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Exec(`
		INSERT INTO teams (id, name, created_at, updated_at)
		VALUES (?, ?, now(), now())
		ON CONFLICT (name) DO NOTHING
	`, uuid.NewString(), DefaultTeamName).Error; err != nil {
		return nil, err
	}

	return r.FindTeamByName(ctx, DefaultTeamName)
}

func (r *repository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var s Setting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s.Value, true, nil
}

func (r *repository) UpsertSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, key, value)
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value).Error
}
