package member

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=member_repo.go -destination=mock/member_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	FindMostRecentByHandle(ctx context.Context, handle string) (*User, error)
	FindPlaceholderByHandle(ctx context.Context, handle string) (*User, error)
	FindByTeamAndID(ctx context.Context, teamID, id string) (*User, error)
	ListByTeam(ctx context.Context, teamID string) ([]User, error)
	ListAdminsByTeam(ctx context.Context, teamID string) ([]User, error)
	BindExternal(ctx context.Context, id, externalID, fullName string) error
	UpdateContact(ctx context.Context, id, handle, fullName string) error
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error

	// MoveToTeam also satisfies team.MemberMover.
	MoveToTeam(ctx context.Context, tx *sql.Tx, userID, teamID, role string) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO users (id, external_id, handle, full_name, role, team_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, u.ID, u.ExternalID, u.Handle, u.FullName, u.Role, u.TeamID)
		return err
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "external_id = ?", externalID).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindMostRecentByHandle searches across every team, matching the
// handle case-insensitively. Handles are not unique, so the newest row
// wins.
func (r *repository) FindMostRecentByHandle(ctx context.Context, handle string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("LOWER(handle) = LOWER(?)", handle).
		Order("created_at DESC, id DESC").
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindPlaceholderByHandle(ctx context.Context, handle string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("LOWER(handle) = LOWER(?)", handle).
		Where("external_id IS NULL").
		Order("created_at DESC, id DESC").
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByTeamAndID(ctx context.Context, teamID, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ListByTeam(ctx context.Context, teamID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("LOWER(full_name)").
		Find(&users).Error
	return users, err
}

func (r *repository) ListAdminsByTeam(ctx context.Context, teamID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Where("role IN ?", adminRoleCodes()).
		Order("LOWER(full_name)").
		Find(&users).Error
	return users, err
}

func (r *repository) BindExternal(ctx context.Context, id, externalID, fullName string) error {
	query := `UPDATE users SET external_id = $2, full_name = $3, updated_at = now() WHERE id = $1`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, id, externalID, fullName)
		return err
	}
	return r.db.WithContext(ctx).
		Exec(`UPDATE users SET external_id = ?, full_name = ?, updated_at = now() WHERE id = ?`,
			externalID, fullName, id).Error
}

func (r *repository) UpdateContact(ctx context.Context, id, handle, fullName string) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE users SET handle = ?, full_name = ?, updated_at = now() WHERE id = ?`,
			handle, fullName, id).Error
}

func (r *repository) UpdateRole(ctx context.Context, id, role string) error {
	query := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, id, role)
		return err
	}
	return r.db.WithContext(ctx).
		Exec(`UPDATE users SET role = ?, updated_at = now() WHERE id = ?`, role, id).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	}
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) MoveToTeam(ctx context.Context, tx *sql.Tx, userID, teamID, role string) error {
	query := `UPDATE users SET team_id = $2, role = $3, updated_at = now() WHERE id = $1`
	if tx != nil {
		res, err := tx.ExecContext(ctx, query, userID, teamID, role)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errors.New("user not found")
		}
		return nil
	}
	return r.db.WithContext(ctx).
		Exec(`UPDATE users SET team_id = ?, role = ?, updated_at = now() WHERE id = ?`,
			teamID, role, userID).Error
}
