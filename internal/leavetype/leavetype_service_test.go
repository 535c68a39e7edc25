package leavetype

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	leavetypeerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/leavetype/errors"
)

type fakeRepo struct {
	createFn          func(ctx context.Context, lt *LeaveType) error
	findAllByTeamFn   func(ctx context.Context, teamID string) ([]LeaveType, error)
	findByIDAndTeamFn func(ctx context.Context, teamID, id string) (*LeaveType, error)
	updateFn          func(ctx context.Context, lt *LeaveType) error
	deleteFn          func(ctx context.Context, teamID, id string) error
}

func (f *fakeRepo) Create(ctx context.Context, lt *LeaveType) error {
	return f.createFn(ctx, lt)
}
func (f *fakeRepo) FindAllByTeam(ctx context.Context, teamID string) ([]LeaveType, error) {
	return f.findAllByTeamFn(ctx, teamID)
}
func (f *fakeRepo) FindByIDAndTeam(ctx context.Context, teamID, id string) (*LeaveType, error) {
	return f.findByIDAndTeamFn(ctx, teamID, id)
}
func (f *fakeRepo) Update(ctx context.Context, lt *LeaveType) error {
	return f.updateFn(ctx, lt)
}
func (f *fakeRepo) Delete(ctx context.Context, teamID, id string) error {
	return f.deleteFn(ctx, teamID, id)
}

func TestService_Create(t *testing.T) {
	teamID := uuid.New()

	var saved *LeaveType
	repo := &fakeRepo{
		createFn: func(ctx context.Context, lt *LeaveType) error {
			saved = lt
			return nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.Create(context.Background(), teamID.String(), CreateLeaveTypeRequest{
		Name:        "Vacation",
		DaysPerYear: 28,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Vacation", resp.Name)
	assert.Equal(t, teamID.String(), resp.TeamID)
	assert.NotNil(t, saved)
}

func TestService_Create_InvalidDays(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveTypeRequest{
		Name:        "Vacation",
		DaysPerYear: 0,
	})
	assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidDaysPerYear)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &fakeRepo{
		findByIDAndTeamFn: func(ctx context.Context, teamID, id string) (*LeaveType, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.GetByID(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
}

func TestService_Update_OverwritesAllFields(t *testing.T) {
	teamID := uuid.New()
	existing := &LeaveType{
		ID:          uuid.New(),
		TeamID:      teamID,
		Name:        "Vacation",
		DaysPerYear: 28,
		Description: "paid",
	}

	repo := &fakeRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*LeaveType, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, lt *LeaveType) error { return nil },
	}
	svc := NewService(repo)

	resp, err := svc.Update(context.Background(), teamID.String(), existing.ID.String(), UpdateLeaveTypeRequest{
		Name:        "Sick Leave",
		DaysPerYear: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Sick Leave", resp.Name)
	assert.Equal(t, 10, resp.DaysPerYear)
	// Full overwrite: an omitted description clears the old one.
	assert.Empty(t, resp.Description)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := &fakeRepo{
		findByIDAndTeamFn: func(ctx context.Context, teamID, id string) (*LeaveType, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
}
