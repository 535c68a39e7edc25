package leavetype

import (
	"context"

	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/tenant"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, lt *LeaveType) error
	FindAllByTeam(ctx context.Context, teamID string) ([]LeaveType, error)
	FindByIDAndTeam(ctx context.Context, teamID, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, teamID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAllByTeam(ctx context.Context, teamID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		Order("name").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndTeam(ctx context.Context, teamID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, teamID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(teamID)).
		Delete(&LeaveType{}, "id = ?", id).Error
}
