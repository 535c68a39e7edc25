package decision

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=decision_repo.go -destination=mock/decision_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, action *PendingAdminAction) error
	FindByAdmin(ctx context.Context, adminID string) (*PendingAdminAction, error)
	DeleteByAdmin(ctx context.Context, adminID string) error

	// ClearByAdmin also satisfies member.DecisionPurger.
	ClearByAdmin(ctx context.Context, tx *sql.Tx, adminID string) error
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

func (r *repository) Upsert(ctx context.Context, action *PendingAdminAction) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO pending_admin_actions (admin_id, request_id, action, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (admin_id) DO UPDATE
			SET request_id = EXCLUDED.request_id,
			    action = EXCLUDED.action,
			    updated_at = now()
		`, action.AdminID, action.RequestID, action.Action)
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "admin_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_id", "action", "updated_at"}),
		}).
		Create(action).Error
}

func (r *repository) FindByAdmin(ctx context.Context, adminID string) (*PendingAdminAction, error) {
	var action PendingAdminAction
	err := r.db.WithContext(ctx).First(&action, "admin_id = ?", adminID).Error
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *repository) DeleteByAdmin(ctx context.Context, adminID string) error {
	return r.db.WithContext(ctx).Delete(&PendingAdminAction{}, "admin_id = ?", adminID).Error
}

func (r *repository) ClearByAdmin(ctx context.Context, tx *sql.Tx, adminID string) error {
	if tx != nil {
		_, err := tx.ExecContext(ctx, `DELETE FROM pending_admin_actions WHERE admin_id = $1`, adminID)
		return err
	}
	return r.DeleteByAdmin(ctx, adminID)
}
