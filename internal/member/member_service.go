package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/domain"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	membererrors "github.com/chikibriki1888/telegram-vacation-bot/internal/member/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/contextutil"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

// RequestPurger removes a member's leave requests when they leave or are
// removed. Implemented by the request repository.
type RequestPurger interface {
	DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error
}

// DecisionPurger drops a member's in-flight decision slot. Implemented
// by the decision repository.
type DecisionPurger interface {
	ClearByAdmin(ctx context.Context, tx *sql.Tx, adminID string) error
}

// UsedDaysProvider reports approved leave days for a member in a year.
// Implemented by the request repository.
type UsedDaysProvider interface {
	AnnualUsedDays(ctx context.Context, userID string, year int) (int, error)
}

//go:generate mockgen -source=member_service.go -destination=mock/member_service_mock.go -package=mock
type Service interface {
	Contact(ctx context.Context, externalID, handle, fullName string) (MemberResponse, error)
	Invite(ctx context.Context, teamID string, req InviteRequest) (MemberResponse, error)
	Remove(ctx context.Context, teamID, actorID, memberID string) error
	LeaveTeam(ctx context.Context, userID string) error
	SetRole(ctx context.Context, teamID, memberID string, req SetRoleRequest) (MemberResponse, error)
	ListTeam(ctx context.Context, teamID string, year int) ([]MemberWithUsageResponse, error)
	GetByID(ctx context.Context, teamID, memberID string) (MemberResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	teams     team.Repository
	outbox    kafka.OutboxRepository
	requests  RequestPurger
	decisions DecisionPurger
	usedDays  UsedDaysProvider
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	teams team.Repository,
	outbox kafka.OutboxRepository,
	requests RequestPurger,
	decisions DecisionPurger,
	usedDays UsedDaysProvider,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("member.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		teams:     teams,
		outbox:    outbox,
		requests:  requests,
		decisions: decisions,
		usedDays:  usedDays,
		logger:    l,
	}
}

// Contact resolves the caller to a member record, creating or binding
// one as needed: a row already bound to the external id wins, then the
// newest placeholder with a matching handle, then a fresh record in the
// default team.
func (s *service) Contact(ctx context.Context, externalID, handle, fullName string) (MemberResponse, error) {
	handle = NormalizeHandle(handle)
	s.logger.Debug("contact requested",
		zap.String("external_id", externalID),
		zap.String("handle", handle),
	)

	if u, err := s.repo.FindByExternalID(ctx, externalID); err == nil {
		if u.Handle != handle || u.FullName != fullName {
			if err := s.repo.UpdateContact(ctx, u.ID.String(), handle, fullName); err != nil {
				s.logger.Error("contact refresh failed", zap.String("member_id", u.ID.String()), zap.Error(err))
				return MemberResponse{}, err
			}
			u.Handle = handle
			u.FullName = fullName
		}
		return mapToResponse(*u), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return MemberResponse{}, err
	}

	if handle != "" {
		if u, err := s.repo.FindPlaceholderByHandle(ctx, handle); err == nil {
			if err := s.repo.BindExternal(ctx, u.ID.String(), externalID, fullName); err != nil {
				s.logger.Error("contact bind placeholder failed",
					zap.String("member_id", u.ID.String()),
					zap.Error(err),
				)
				return MemberResponse{}, err
			}
			s.logger.Info("contact bound placeholder",
				zap.String("member_id", u.ID.String()),
				zap.String("handle", handle),
			)
			u.ExternalID = &externalID
			u.FullName = fullName
			return mapToResponse(*u), nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberResponse{}, err
		}
	}

	defaultTeam, err := s.teams.EnsureDefaultTeam(ctx)
	if err != nil {
		s.logger.Error("contact ensure default team failed", zap.Error(err))
		return MemberResponse{}, err
	}

	u := &User{
		ID:         uuid.New(),
		ExternalID: &externalID,
		Handle:     handle,
		FullName:   fullName,
		Role:       string(domain.RoleManager),
		TeamID:     defaultTeam.ID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("contact create member failed", zap.Error(err))
		return MemberResponse{}, err
	}

	s.logger.Info("contact created member",
		zap.String("member_id", u.ID.String()),
		zap.String("team_id", defaultTeam.ID.String()),
	)

	return mapToResponse(*u), nil
}

func (s *service) Invite(ctx context.Context, teamID string, req InviteRequest) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	req.Handle = NormalizeHandle(req.Handle)
	s.logger.Debug("invite requested",
		zap.String("request_id", rid),
		zap.String("team_id", teamID),
		zap.String("handle", req.Handle),
		zap.String("role", req.Role),
	)

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return MemberResponse{}, membererrors.ErrInvalidRole
	}

	t, err := s.teams.FindTeamByID(ctx, teamID)
	if err != nil {
		return MemberResponse{}, err
	}

	existing, err := s.repo.FindMostRecentByHandle(ctx, req.Handle)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return MemberResponse{}, err
	}

	// A member of another team cannot be pulled in. They get told, and
	// the invite stops there.
	if existing != nil && existing.TeamID.String() != teamID {
		event := events.MemberInviteBlockedEvent{
			EventType:   events.EventMemberInviteBlocked,
			Handle:      req.Handle,
			TeamID:      teamID,
			TeamName:    t.Name,
			CurrentTeam: existing.TeamID.String(),
			OccurredAt:  time.Now().UTC(),
		}
		if existing.ExternalID != nil {
			event.ExternalID = *existing.ExternalID
		}
		if err := s.queueMemberEvent(ctx, rid, existing.ID.String(), event.EventType, event); err != nil {
			s.logger.Error("invite blocked event queue failed", zap.Error(err))
		}
		return MemberResponse{}, membererrors.ErrAlreadyInOtherTeam
	}

	// Already in this team: the invite just updates the role.
	if existing != nil {
		if err := s.repo.UpdateRole(ctx, existing.ID.String(), string(role)); err != nil {
			s.logger.Error("invite role update failed", zap.String("member_id", existing.ID.String()), zap.Error(err))
			return MemberResponse{}, err
		}
		existing.Role = string(role)
		return mapToResponse(*existing), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("invite begin tx failed", zap.Error(err))
		return MemberResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u := &User{
		ID:       uuid.New(),
		Handle:   req.Handle,
		FullName: req.Handle,
		Role:     string(role),
		TeamID:   t.ID,
	}
	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("invite persist failed", zap.Error(err))
		return MemberResponse{}, err
	}

	event := events.MemberInvitedEvent{
		EventType:  events.EventMemberInvited,
		MemberID:   u.ID.String(),
		TeamID:     teamID,
		TeamName:   t.Name,
		Handle:     req.Handle,
		Role:       string(role),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return MemberResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "member",
		AggregateID:   u.ID.String(),
		EventType:     event.EventType,
		Topic:         events.MemberLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("invite outbox persist failed", zap.Error(err))
		return MemberResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("invite commit failed", zap.Error(err))
		return MemberResponse{}, err
	}

	s.logger.Info("invite success",
		zap.String("member_id", u.ID.String()),
		zap.String("team_id", teamID),
		zap.String("handle", req.Handle),
	)

	return mapToResponse(*u), nil
}

func (s *service) Remove(ctx context.Context, teamID, actorID, memberID string) error {
	s.logger.Debug("remove member requested",
		zap.String("team_id", teamID),
		zap.String("member_id", memberID),
	)

	if actorID == memberID {
		return membererrors.ErrCannotRemoveSelf
	}

	if _, err := s.repo.FindByTeamAndID(ctx, teamID, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membererrors.ErrNotInTeam
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("remove member begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.requests.DeleteByUser(ctx, tx, memberID); err != nil {
		s.logger.Error("remove member purge requests failed", zap.String("member_id", memberID), zap.Error(err))
		return err
	}
	if err := s.repo.WithTx(tx).Delete(ctx, memberID); err != nil {
		s.logger.Error("remove member delete failed", zap.String("member_id", memberID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("remove member commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("remove member success",
		zap.String("team_id", teamID),
		zap.String("member_id", memberID),
	)
	return nil
}

// LeaveTeam deletes the member along with their requests and any
// decision they had in flight.
func (s *service) LeaveTeam(ctx context.Context, userID string) error {
	s.logger.Debug("leave team requested", zap.String("member_id", userID))

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membererrors.ErrMemberNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave team begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.requests.DeleteByUser(ctx, tx, userID); err != nil {
		s.logger.Error("leave team purge requests failed", zap.String("member_id", userID), zap.Error(err))
		return err
	}
	if err := s.decisions.ClearByAdmin(ctx, tx, userID); err != nil {
		s.logger.Error("leave team clear decision slot failed", zap.String("member_id", userID), zap.Error(err))
		return err
	}
	if err := s.repo.WithTx(tx).Delete(ctx, userID); err != nil {
		s.logger.Error("leave team delete member failed", zap.String("member_id", userID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave team commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("leave team success", zap.String("member_id", userID))
	return nil
}

func (s *service) SetRole(ctx context.Context, teamID, memberID string, req SetRoleRequest) (MemberResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return MemberResponse{}, membererrors.ErrInvalidRole
	}

	u, err := s.repo.FindByTeamAndID(ctx, teamID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberResponse{}, membererrors.ErrNotInTeam
		}
		return MemberResponse{}, err
	}

	if err := s.repo.UpdateRole(ctx, memberID, string(role)); err != nil {
		s.logger.Error("set role failed", zap.String("member_id", memberID), zap.Error(err))
		return MemberResponse{}, err
	}

	s.logger.Info("set role success",
		zap.String("member_id", memberID),
		zap.String("role", string(role)),
	)

	u.Role = string(role)
	return mapToResponse(*u), nil
}

func (s *service) ListTeam(ctx context.Context, teamID string, year int) ([]MemberWithUsageResponse, error) {
	users, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp := make([]MemberWithUsageResponse, 0, len(users))
	for _, u := range users {
		used, err := s.usedDays.AnnualUsedDays(ctx, u.ID.String(), year)
		if err != nil {
			s.logger.Error("list team used days failed",
				zap.String("member_id", u.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		resp = append(resp, MemberWithUsageResponse{
			MemberResponse: mapToResponse(u),
			UsedDays:       used,
		})
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, teamID, memberID string) (MemberResponse, error) {
	u, err := s.repo.FindByTeamAndID(ctx, teamID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberResponse{}, membererrors.ErrNotInTeam
		}
		return MemberResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) queueMemberEvent(ctx context.Context, rid, aggregateID, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "member",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         events.MemberLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// NormalizeHandle strips surrounding space and the leading @ marker, so
// "@ivan" and "ivan" name the same member. Case is stored as given;
// handle lookups compare case-insensitively.
func NormalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}

func adminRoleCodes() []string {
	roles := domain.AllRoles()
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.IsAdmin() {
			codes = append(codes, string(r))
		}
	}
	return codes
}

func mapToResponse(u User) MemberResponse {
	resp := MemberResponse{
		ID:        u.ID.String(),
		Handle:    u.Handle,
		FullName:  u.FullName,
		Role:      u.Role,
		RoleLabel: domain.Role(u.Role).DisplayLabel(),
		TeamID:    u.TeamID.String(),
	}
	if u.ExternalID != nil {
		resp.ExternalID = *u.ExternalID
	}
	return resp
}
