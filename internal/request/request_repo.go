package request

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/tenant"
)

// RequestWithOwner joins the owner's name and role for team-level views
// and the overlap policy.
type RequestWithOwner struct {
	Request
	OwnerName   string
	OwnerRole   string
	OwnerHandle string
}

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	FindByIDAndTeam(ctx context.Context, teamID, id string) (*Request, error)
	ListActiveByTeam(ctx context.Context, teamID string) ([]RequestWithOwner, error)
	ListPendingByTeam(ctx context.Context, teamID string) ([]RequestWithOwner, error)
	ListByTeamAndYear(ctx context.Context, teamID string, year int) ([]RequestWithOwner, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	AnnualUsedDays(ctx context.Context, userID string, year int) (int, error)

	// UpdateStatus performs a guarded transition and reports whether a
	// row actually moved. Zero rows means the request was not in the
	// expected state (or is gone).
	UpdateStatus(ctx context.Context, id, from, to, adminComment string) (bool, error)

	// DeleteByUser also satisfies member.RequestPurger.
	DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO leave_requests (
				id, number, team_id, user_id, leave_type_id,
				start_date, end_date, total_days, comment, admin_comment, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		`,
			req.ID, req.Number, req.TeamID, req.UserID, req.LeaveTypeID,
			req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
			req.TotalDays, req.Comment, req.AdminComment, req.Status,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindByIDAndTeam(ctx context.Context, teamID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

const withOwnerSelect = `
	leave_requests.*,
	users.full_name AS owner_name,
	users.role AS owner_role,
	users.handle AS owner_handle
`

func (r *repository) ListActiveByTeam(ctx context.Context, teamID string) ([]RequestWithOwner, error) {
	var rows []RequestWithOwner
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select(withOwnerSelect).
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("leave_requests.team_id = ?", teamID).
		Where("leave_requests.status IN ?", []string{StatusPending, StatusApproved}).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListPendingByTeam(ctx context.Context, teamID string) ([]RequestWithOwner, error) {
	var rows []RequestWithOwner
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select(withOwnerSelect).
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("leave_requests.team_id = ?", teamID).
		Where("leave_requests.status = ?", StatusPending).
		Order("leave_requests.start_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListByTeamAndYear(ctx context.Context, teamID string, year int) ([]RequestWithOwner, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	var rows []RequestWithOwner
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select(withOwnerSelect).
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("leave_requests.team_id = ?", teamID).
		Where("leave_requests.start_date BETWEEN ? AND ?",
			start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("leave_requests.start_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	var reqs []Request
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// AnnualUsedDays counts approved days only; pending requests do not
// consume quota. A request belongs to the year its start date is in.
func (r *repository) AnnualUsedDays(ctx context.Context, userID string, year int) (int, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	var used sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&Request{}).
		Select("COALESCE(SUM(total_days), 0)").
		Where("user_id = ?", userID).
		Where("status = ?", StatusApproved).
		Where("start_date BETWEEN ? AND ?",
			start.Format("2006-01-02"), end.Format("2006-01-02")).
		Scan(&used).Error
	if err != nil {
		return 0, err
	}
	return int(used.Int64), nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, from, to, adminComment string) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = $3, admin_comment = $4, updated_at = now()
		WHERE id = $1 AND status = $2
	`
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, id, from, to, adminComment)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return affected > 0, nil
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_requests
		SET status = ?, admin_comment = ?, updated_at = now()
		WHERE id = ? AND status = ?
	`, to, adminComment, id, from)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error {
	if tx != nil {
		_, err := tx.ExecContext(ctx, `DELETE FROM leave_requests WHERE user_id = $1`, userID)
		return err
	}
	return r.db.WithContext(ctx).Delete(&Request{}, "user_id = ?", userID).Error
}
