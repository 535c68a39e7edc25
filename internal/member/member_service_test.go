package member

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	membererrors "github.com/chikibriki1888/telegram-vacation-bot/internal/member/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

type fakeRepo struct {
	createFn                  func(ctx context.Context, u *User) error
	findByIDFn                func(ctx context.Context, id string) (*User, error)
	findByExternalIDFn        func(ctx context.Context, externalID string) (*User, error)
	findMostRecentByHandleFn  func(ctx context.Context, handle string) (*User, error)
	findPlaceholderByHandleFn func(ctx context.Context, handle string) (*User, error)
	findByTeamAndIDFn         func(ctx context.Context, teamID, id string) (*User, error)
	listByTeamFn              func(ctx context.Context, teamID string) ([]User, error)
	bindExternalFn            func(ctx context.Context, id, externalID, fullName string) error
	updateContactFn           func(ctx context.Context, id, handle, fullName string) error
	updateRoleFn              func(ctx context.Context, id, role string) error
	deleteFn                  func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	return f.createFn(ctx, u)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	return f.findByExternalIDFn(ctx, externalID)
}
func (f *fakeRepo) FindMostRecentByHandle(ctx context.Context, handle string) (*User, error) {
	return f.findMostRecentByHandleFn(ctx, handle)
}
func (f *fakeRepo) FindPlaceholderByHandle(ctx context.Context, handle string) (*User, error) {
	return f.findPlaceholderByHandleFn(ctx, handle)
}
func (f *fakeRepo) FindByTeamAndID(ctx context.Context, teamID, id string) (*User, error) {
	return f.findByTeamAndIDFn(ctx, teamID, id)
}
func (f *fakeRepo) ListByTeam(ctx context.Context, teamID string) ([]User, error) {
	return f.listByTeamFn(ctx, teamID)
}
func (f *fakeRepo) ListAdminsByTeam(ctx context.Context, teamID string) ([]User, error) {
	return nil, nil
}
func (f *fakeRepo) BindExternal(ctx context.Context, id, externalID, fullName string) error {
	return f.bindExternalFn(ctx, id, externalID, fullName)
}
func (f *fakeRepo) UpdateContact(ctx context.Context, id, handle, fullName string) error {
	return f.updateContactFn(ctx, id, handle, fullName)
}
func (f *fakeRepo) UpdateRole(ctx context.Context, id, role string) error {
	return f.updateRoleFn(ctx, id, role)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeRepo) MoveToTeam(ctx context.Context, tx *sql.Tx, userID, teamID, role string) error {
	return nil
}

type fakeTeamRepo struct {
	defaultTeam  *team.Team
	findByIDFn   func(ctx context.Context, id string) (*team.Team, error)
}

func (f *fakeTeamRepo) WithTx(tx *sql.Tx) team.Repository { return f }
func (f *fakeTeamRepo) CreateTeam(ctx context.Context, t *team.Team) error {
	return nil
}
func (f *fakeTeamRepo) FindTeamByID(ctx context.Context, id string) (*team.Team, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeTeamRepo) FindTeamByName(ctx context.Context, name string) (*team.Team, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTeamRepo) EnsureDefaultTeam(ctx context.Context) (*team.Team, error) {
	return f.defaultTeam, nil
}
func (f *fakeTeamRepo) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}
func (f *fakeTeamRepo) UpsertSetting(ctx context.Context, key, value string) error {
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

type fakePurger struct {
	purged []string
}

func (f *fakePurger) DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error {
	f.purged = append(f.purged, userID)
	return nil
}

type fakeDecisions struct {
	cleared []string
}

func (f *fakeDecisions) ClearByAdmin(ctx context.Context, tx *sql.Tx, adminID string) error {
	f.cleared = append(f.cleared, adminID)
	return nil
}

type fakeUsedDays struct {
	byUser map[string]int
}

func (f *fakeUsedDays) AnnualUsedDays(ctx context.Context, userID string, year int) (int, error) {
	return f.byUser[userID], nil
}

type memberDeps struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	repo      *fakeRepo
	teams     *fakeTeamRepo
	outbox    *fakeOutbox
	purger    *fakePurger
	decisions *fakeDecisions
	usedDays  *fakeUsedDays
	service   Service
}

func setupMemberTest(t *testing.T) *memberDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	d := &memberDeps{
		db:   db,
		mock: mock,
		repo: &fakeRepo{},
		teams: &fakeTeamRepo{
			defaultTeam: &team.Team{ID: uuid.New(), Name: team.DefaultTeamName},
		},
		outbox:    &fakeOutbox{},
		purger:    &fakePurger{},
		decisions: &fakeDecisions{},
		usedDays:  &fakeUsedDays{byUser: map[string]int{}},
	}
	d.service = NewService(db, d.repo, d.teams, d.outbox, d.purger, d.decisions, d.usedDays)
	t.Cleanup(func() { db.Close() })
	return d
}

func TestService_Contact_NewMemberLandsInDefaultTeam(t *testing.T) {
	d := setupMemberTest(t)

	var created *User
	d.repo.findByExternalIDFn = func(ctx context.Context, externalID string) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	d.repo.findPlaceholderByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	d.repo.createFn = func(ctx context.Context, u *User) error {
		created = u
		return nil
	}

	resp, err := d.service.Contact(context.Background(), "tg-100", "ivan", "Ivan Petrov")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "MANAGER", resp.Role)
	assert.Equal(t, d.teams.defaultTeam.ID.String(), resp.TeamID)
	assert.Equal(t, "tg-100", resp.ExternalID)
}

func TestService_Contact_BindsPlaceholder(t *testing.T) {
	d := setupMemberTest(t)

	placeholder := &User{
		ID:     uuid.New(),
		Handle: "ivan",
		Role:   "BUYER",
		TeamID: uuid.New(),
	}
	bound := false

	d.repo.findByExternalIDFn = func(ctx context.Context, externalID string) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	d.repo.findPlaceholderByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		return placeholder, nil
	}
	d.repo.bindExternalFn = func(ctx context.Context, id, externalID, fullName string) error {
		assert.Equal(t, placeholder.ID.String(), id)
		bound = true
		return nil
	}

	resp, err := d.service.Contact(context.Background(), "tg-100", "ivan", "Ivan Petrov")
	assert.NoError(t, err)
	assert.True(t, bound)
	// The placeholder keeps the role and team from the invite.
	assert.Equal(t, "BUYER", resp.Role)
	assert.Equal(t, placeholder.TeamID.String(), resp.TeamID)
}

func TestService_Contact_ExistingBindingWins(t *testing.T) {
	d := setupMemberTest(t)

	externalID := "tg-100"
	existing := &User{
		ID:         uuid.New(),
		ExternalID: &externalID,
		Handle:     "old_handle",
		FullName:   "Ivan",
		Role:       "TEAM_LEAD",
		TeamID:     uuid.New(),
	}
	refreshed := false

	d.repo.findByExternalIDFn = func(ctx context.Context, eid string) (*User, error) {
		return existing, nil
	}
	d.repo.updateContactFn = func(ctx context.Context, id, handle, fullName string) error {
		refreshed = true
		return nil
	}
	d.repo.findPlaceholderByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		t.Fatal("placeholder lookup must not run when the binding exists")
		return nil, nil
	}

	resp, err := d.service.Contact(context.Background(), externalID, "new_handle", "Ivan Petrov")
	assert.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, "new_handle", resp.Handle)
	assert.Equal(t, "TEAM_LEAD", resp.Role)
}

func TestService_Contact_StripsHandleMarker(t *testing.T) {
	d := setupMemberTest(t)

	lookedUp := ""
	var created *User
	d.repo.findByExternalIDFn = func(ctx context.Context, externalID string) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	d.repo.findPlaceholderByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		lookedUp = handle
		return nil, gorm.ErrRecordNotFound
	}
	d.repo.createFn = func(ctx context.Context, u *User) error {
		created = u
		return nil
	}

	resp, err := d.service.Contact(context.Background(), "tg-100", "@ivan", "Ivan Petrov")
	assert.NoError(t, err)
	// The marker never reaches the lookup or the stored row, so a
	// placeholder invited as "ivan" binds a contact from "@ivan".
	assert.Equal(t, "ivan", lookedUp)
	assert.Equal(t, "ivan", created.Handle)
	assert.Equal(t, "ivan", resp.Handle)
}

func TestService_Invite_NewHandleCreatesPlaceholder(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.New()
	d.teams.findByIDFn = func(ctx context.Context, id string) (*team.Team, error) {
		return &team.Team{ID: teamID, Name: "Media Buying"}, nil
	}
	d.repo.findMostRecentByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	var created *User
	d.repo.createFn = func(ctx context.Context, u *User) error {
		created = u
		return nil
	}

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	resp, err := d.service.Invite(context.Background(), teamID.String(), InviteRequest{
		Handle: "petya",
		Role:   "DESIGNER",
	})
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Nil(t, created.ExternalID)
	assert.Equal(t, "DESIGNER", resp.Role)

	assert.Len(t, d.outbox.created, 1)
	assert.Equal(t, events.EventMemberInvited, d.outbox.created[0].EventType)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestService_Invite_SameTeamUpdatesRole(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.New()
	existing := &User{ID: uuid.New(), Handle: "petya", Role: "DESIGNER", TeamID: teamID}

	d.teams.findByIDFn = func(ctx context.Context, id string) (*team.Team, error) {
		return &team.Team{ID: teamID, Name: "Media Buying"}, nil
	}
	d.repo.findMostRecentByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		return existing, nil
	}
	roleSet := ""
	d.repo.updateRoleFn = func(ctx context.Context, id, role string) error {
		roleSet = role
		return nil
	}

	resp, err := d.service.Invite(context.Background(), teamID.String(), InviteRequest{
		Handle: "petya",
		Role:   "BUYER",
	})
	assert.NoError(t, err)
	assert.Equal(t, "BUYER", roleSet)
	assert.Equal(t, "BUYER", resp.Role)
	assert.Empty(t, d.outbox.created)
}

func TestService_Invite_OtherTeamBlocked(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.New()
	otherTeam := uuid.New()
	existing := &User{ID: uuid.New(), Handle: "petya", Role: "BUYER", TeamID: otherTeam}

	d.teams.findByIDFn = func(ctx context.Context, id string) (*team.Team, error) {
		return &team.Team{ID: teamID, Name: "Media Buying"}, nil
	}
	d.repo.findMostRecentByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		return existing, nil
	}

	_, err := d.service.Invite(context.Background(), teamID.String(), InviteRequest{
		Handle: "petya",
		Role:   "BUYER",
	})
	assert.ErrorIs(t, err, membererrors.ErrAlreadyInOtherTeam)

	// The blocked invite is still announced.
	assert.Len(t, d.outbox.created, 1)
	assert.Equal(t, events.EventMemberInviteBlocked, d.outbox.created[0].EventType)
}

func TestService_Invite_StripsHandleMarker(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.New()
	d.teams.findByIDFn = func(ctx context.Context, id string) (*team.Team, error) {
		return &team.Team{ID: teamID, Name: "Media Buying"}, nil
	}
	lookedUp := ""
	d.repo.findMostRecentByHandleFn = func(ctx context.Context, handle string) (*User, error) {
		lookedUp = handle
		return nil, gorm.ErrRecordNotFound
	}
	var created *User
	d.repo.createFn = func(ctx context.Context, u *User) error {
		created = u
		return nil
	}

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	resp, err := d.service.Invite(context.Background(), teamID.String(), InviteRequest{
		Handle: "@petya",
		Role:   "DESIGNER",
	})
	assert.NoError(t, err)
	assert.Equal(t, "petya", lookedUp)
	assert.Equal(t, "petya", created.Handle)
	assert.Equal(t, "petya", resp.Handle)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestService_Invite_UnknownRole(t *testing.T) {
	d := setupMemberTest(t)

	_, err := d.service.Invite(context.Background(), uuid.NewString(), InviteRequest{
		Handle: "petya",
		Role:   "WIZARD",
	})
	assert.ErrorIs(t, err, membererrors.ErrInvalidRole)
}

func TestService_Remove(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.NewString()
	memberID := uuid.NewString()
	deleted := ""

	d.repo.findByTeamAndIDFn = func(ctx context.Context, tid, id string) (*User, error) {
		return &User{ID: uuid.MustParse(memberID)}, nil
	}
	d.repo.deleteFn = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	err := d.service.Remove(context.Background(), teamID, uuid.NewString(), memberID)
	assert.NoError(t, err)
	assert.Equal(t, memberID, deleted)
	assert.Equal(t, []string{memberID}, d.purger.purged)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestService_Remove_Self(t *testing.T) {
	d := setupMemberTest(t)

	actorID := uuid.NewString()
	err := d.service.Remove(context.Background(), uuid.NewString(), actorID, actorID)
	assert.ErrorIs(t, err, membererrors.ErrCannotRemoveSelf)
}

func TestService_LeaveTeam_CascadesEverything(t *testing.T) {
	d := setupMemberTest(t)

	userID := uuid.NewString()
	deleted := ""

	d.repo.findByIDFn = func(ctx context.Context, id string) (*User, error) {
		return &User{ID: uuid.MustParse(userID)}, nil
	}
	d.repo.deleteFn = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	err := d.service.LeaveTeam(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, userID, deleted)
	assert.Equal(t, []string{userID}, d.purger.purged)
	assert.Equal(t, []string{userID}, d.decisions.cleared)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestService_ListTeam_IncludesUsedDays(t *testing.T) {
	d := setupMemberTest(t)

	teamID := uuid.New()
	u1 := User{ID: uuid.New(), Handle: "anna", FullName: "Anna", Role: "BUYER", TeamID: teamID}
	u2 := User{ID: uuid.New(), Handle: "boris", FullName: "Boris", Role: "DESIGNER", TeamID: teamID}

	d.repo.listByTeamFn = func(ctx context.Context, tid string) ([]User, error) {
		return []User{u1, u2}, nil
	}
	d.usedDays.byUser[u1.ID.String()] = 12

	resp, err := d.service.ListTeam(context.Background(), teamID.String(), 2026)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, 12, resp[0].UsedDays)
	assert.Equal(t, 0, resp[1].UsedDays)
}
