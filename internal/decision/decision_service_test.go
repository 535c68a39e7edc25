package decision

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	decisionerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/decision/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/request"
)

type fakeRepo struct {
	upsertFn        func(ctx context.Context, action *PendingAdminAction) error
	findByAdminFn   func(ctx context.Context, adminID string) (*PendingAdminAction, error)
	deleteByAdminFn func(ctx context.Context, adminID string) error
	clearByAdminFn  func(ctx context.Context, tx *sql.Tx, adminID string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Upsert(ctx context.Context, action *PendingAdminAction) error {
	return f.upsertFn(ctx, action)
}
func (f *fakeRepo) FindByAdmin(ctx context.Context, adminID string) (*PendingAdminAction, error) {
	return f.findByAdminFn(ctx, adminID)
}
func (f *fakeRepo) DeleteByAdmin(ctx context.Context, adminID string) error {
	return f.deleteByAdminFn(ctx, adminID)
}
func (f *fakeRepo) ClearByAdmin(ctx context.Context, tx *sql.Tx, adminID string) error {
	return f.clearByAdminFn(ctx, tx, adminID)
}

type fakeRequestRepo struct {
	findByIDAndTeamFn func(ctx context.Context, teamID, id string) (*request.Request, error)
	updateStatusFn    func(ctx context.Context, id, from, to, adminComment string) (bool, error)
}

func (f *fakeRequestRepo) WithTx(tx *sql.Tx) request.Repository { return f }
func (f *fakeRequestRepo) Create(ctx context.Context, r *request.Request) error {
	return nil
}
func (f *fakeRequestRepo) FindByID(ctx context.Context, id string) (*request.Request, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRequestRepo) FindByIDAndTeam(ctx context.Context, teamID, id string) (*request.Request, error) {
	return f.findByIDAndTeamFn(ctx, teamID, id)
}
func (f *fakeRequestRepo) ListActiveByTeam(ctx context.Context, teamID string) ([]request.RequestWithOwner, error) {
	return nil, nil
}
func (f *fakeRequestRepo) ListPendingByTeam(ctx context.Context, teamID string) ([]request.RequestWithOwner, error) {
	return nil, nil
}
func (f *fakeRequestRepo) ListByTeamAndYear(ctx context.Context, teamID string, year int) ([]request.RequestWithOwner, error) {
	return nil, nil
}
func (f *fakeRequestRepo) ListByUser(ctx context.Context, userID string) ([]request.Request, error) {
	return nil, nil
}
func (f *fakeRequestRepo) AnnualUsedDays(ctx context.Context, userID string, year int) (int, error) {
	return 0, nil
}
func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id, from, to, adminComment string) (bool, error) {
	return f.updateStatusFn(ctx, id, from, to, adminComment)
}
func (f *fakeRequestRepo) DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error {
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func pendingRequest(teamID string) *request.Request {
	return &request.Request{
		ID:     uuid.New(),
		Number: 7,
		TeamID: uuid.MustParse(teamID),
		UserID: uuid.New(),
		Status: request.StatusPending,
	}
}

func TestService_Begin(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	adminID := uuid.NewString()
	r := pendingRequest(teamID)

	var slotted *PendingAdminAction
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, action *PendingAdminAction) error {
			slotted = action
			return nil
		},
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return r, nil
		},
	}

	svc := NewService(db, repo, requests, &fakeOutbox{})

	resp, err := svc.Begin(context.Background(), teamID, adminID, BeginDecisionRequest{
		RequestID: r.ID.String(),
		Action:    ActionApprove,
	})
	assert.NoError(t, err)
	assert.Equal(t, ActionApprove, resp.Action)
	assert.Equal(t, r.ID.String(), resp.RequestID)
	assert.NotNil(t, slotted)
	assert.Equal(t, adminID, slotted.AdminID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Begin_ReplacesPreviousSlot(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	adminID := uuid.NewString()
	first := pendingRequest(teamID)
	second := pendingRequest(teamID)

	var slotted *PendingAdminAction
	repo := &fakeRepo{
		upsertFn: func(ctx context.Context, action *PendingAdminAction) error {
			slotted = action
			return nil
		},
	}
	byID := map[string]*request.Request{
		first.ID.String():  first,
		second.ID.String(): second,
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return byID[id], nil
		},
	}

	svc := NewService(db, repo, requests, &fakeOutbox{})

	_, err = svc.Begin(context.Background(), teamID, adminID, BeginDecisionRequest{
		RequestID: first.ID.String(),
		Action:    ActionApprove,
	})
	assert.NoError(t, err)

	_, err = svc.Begin(context.Background(), teamID, adminID, BeginDecisionRequest{
		RequestID: second.ID.String(),
		Action:    ActionReject,
	})
	assert.NoError(t, err)
	assert.Equal(t, second.ID, slotted.RequestID)
	assert.Equal(t, ActionReject, slotted.Action)
}

func TestService_Begin_InvalidAction(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeRequestRepo{}, &fakeOutbox{})

	_, err = svc.Begin(context.Background(), uuid.NewString(), uuid.NewString(), BeginDecisionRequest{
		RequestID: uuid.NewString(),
		Action:    "maybe",
	})
	assert.ErrorIs(t, err, decisionerrors.ErrInvalidAction)
}

func TestService_Begin_RequestNotPending(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	r := pendingRequest(teamID)
	r.Status = request.StatusApproved

	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return r, nil
		},
	}
	svc := NewService(db, &fakeRepo{}, requests, &fakeOutbox{})

	_, err = svc.Begin(context.Background(), teamID, uuid.NewString(), BeginDecisionRequest{
		RequestID: r.ID.String(),
		Action:    ActionApprove,
	})
	assert.ErrorIs(t, err, decisionerrors.ErrRequestNotPending)
}

func TestService_Finalize_Approve(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	adminID := uuid.NewString()
	r := pendingRequest(teamID)

	repo := &fakeRepo{
		findByAdminFn: func(ctx context.Context, aid string) (*PendingAdminAction, error) {
			return &PendingAdminAction{
				AdminID:   uuid.MustParse(adminID),
				RequestID: r.ID,
				Action:    ActionApprove,
			}, nil
		},
		clearByAdminFn: func(ctx context.Context, tx *sql.Tx, aid string) error { return nil },
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return r, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to, adminComment string) (bool, error) {
			assert.Equal(t, request.StatusPending, from)
			assert.Equal(t, request.StatusApproved, to)
			assert.Equal(t, "enjoy", adminComment)
			return true, nil
		},
	}
	outbox := &fakeOutbox{}

	svc := NewService(db, repo, requests, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Finalize(context.Background(), teamID, adminID, FinalizeDecisionRequest{Comment: "enjoy"})
	assert.NoError(t, err)
	assert.Equal(t, request.StatusApproved, resp.Status)
	assert.Equal(t, "enjoy", resp.AdminComment)

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, events.EventRequestDecided, outbox.created[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Finalize_EmptyCommentIsFinal(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	adminID := uuid.NewString()
	r := pendingRequest(teamID)

	repo := &fakeRepo{
		findByAdminFn: func(ctx context.Context, aid string) (*PendingAdminAction, error) {
			return &PendingAdminAction{
				AdminID:   uuid.MustParse(adminID),
				RequestID: r.ID,
				Action:    ActionReject,
			}, nil
		},
		clearByAdminFn: func(ctx context.Context, tx *sql.Tx, aid string) error { return nil },
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return r, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to, adminComment string) (bool, error) {
			assert.Equal(t, request.StatusRejected, to)
			assert.Empty(t, adminComment)
			return true, nil
		},
	}

	svc := NewService(db, repo, requests, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Finalize(context.Background(), teamID, adminID, FinalizeDecisionRequest{})
	assert.NoError(t, err)
	assert.Equal(t, request.StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Finalize_NoActiveAction(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		findByAdminFn: func(ctx context.Context, aid string) (*PendingAdminAction, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeRequestRepo{}, &fakeOutbox{})

	_, err = svc.Finalize(context.Background(), uuid.NewString(), uuid.NewString(), FinalizeDecisionRequest{})
	assert.ErrorIs(t, err, decisionerrors.ErrNoActiveAction)
}

func TestService_Finalize_RequestGoneClearsSlot(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	adminID := uuid.NewString()
	cleared := false

	repo := &fakeRepo{
		findByAdminFn: func(ctx context.Context, aid string) (*PendingAdminAction, error) {
			return &PendingAdminAction{
				AdminID:   uuid.MustParse(adminID),
				RequestID: uuid.New(),
				Action:    ActionApprove,
			}, nil
		},
		deleteByAdminFn: func(ctx context.Context, aid string) error {
			cleared = true
			return nil
		},
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, requests, &fakeOutbox{})

	_, err = svc.Finalize(context.Background(), uuid.NewString(), adminID, FinalizeDecisionRequest{})
	assert.ErrorIs(t, err, decisionerrors.ErrRequestNotFound)
	assert.True(t, cleared)
}

func TestService_Finalize_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	teamID := uuid.NewString()
	adminID := uuid.NewString()
	r := pendingRequest(teamID)
	cleared := false

	repo := &fakeRepo{
		findByAdminFn: func(ctx context.Context, aid string) (*PendingAdminAction, error) {
			return &PendingAdminAction{
				AdminID:   uuid.MustParse(adminID),
				RequestID: r.ID,
				Action:    ActionApprove,
			}, nil
		},
		clearByAdminFn: func(ctx context.Context, tx *sql.Tx, aid string) error {
			cleared = true
			return nil
		},
	}
	requests := &fakeRequestRepo{
		findByIDAndTeamFn: func(ctx context.Context, tid, id string) (*request.Request, error) {
			return r, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to, adminComment string) (bool, error) {
			// Someone cancelled or decided first.
			return false, nil
		},
	}
	outbox := &fakeOutbox{}
	svc := NewService(db, repo, requests, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err = svc.Finalize(context.Background(), teamID, adminID, FinalizeDecisionRequest{})
	assert.ErrorIs(t, err, decisionerrors.ErrRequestNotPending)
	assert.True(t, cleared)
	assert.Empty(t, outbox.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
