package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	requesterrors "github.com/chikibriki1888/telegram-vacation-bot/internal/request/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/contextutil"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/counter"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

// ForbiddenChecker finds the earliest blocked day in a range.
// Implemented by the forbidden service.
type ForbiddenChecker interface {
	FirstForbiddenDate(ctx context.Context, teamID string, start, end time.Time) (*time.Time, error)
}

// LeaveTypeResolver verifies the chosen type belongs to the team and
// returns its display name for notifications. Implemented by the
// leavetype service.
type LeaveTypeResolver interface {
	ResolveName(ctx context.Context, teamID, leaveTypeID string) (string, error)
}

// AdminLister returns the team's admins for the submitted event, so the
// notifier does not need a directory of its own. Implemented by the
// member repository.
type AdminLister interface {
	ListAdminContacts(ctx context.Context, teamID string) ([]events.AdminContact, error)
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, teamID, userID, role, handle string, req SubmitRequest) (RequestResponse, error)
	Cancel(ctx context.Context, teamID, userID, id string) (RequestResponse, error)
	ListMine(ctx context.Context, userID string) ([]RequestResponse, error)
	ListPending(ctx context.Context, teamID string) ([]RequestResponse, error)
	ListByYear(ctx context.Context, teamID string, year int) ([]RequestResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	settings  team.SettingsService
	forbidden ForbiddenChecker
	types     LeaveTypeResolver
	admins    AdminLister
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	settings team.SettingsService,
	forbidden ForbiddenChecker,
	types LeaveTypeResolver,
	admins AdminLister,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		counter:   counterRepo,
		outbox:    outbox,
		settings:  settings,
		forbidden: forbidden,
		types:     types,
		admins:    admins,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, teamID, userID, role, handle string, req SubmitRequest) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit request requested",
		zap.String("request_id", rid),
		zap.String("team_id", teamID),
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	start, err := parseDate(req.StartDate)
	if err != nil {
		return RequestResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}

	typeName, err := s.types.ResolveName(ctx, teamID, req.LeaveTypeID)
	if err != nil {
		return RequestResponse{}, err
	}

	input, err := s.buildSubmissionInput(ctx, teamID, userID, role, start, end)
	if err != nil {
		return RequestResponse{}, err
	}
	if err := ValidateSubmission(input); err != nil {
		s.logger.Warn("submit request rejected by rules",
			zap.String("team_id", teamID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	number, err := s.counter.GetNextValue(ctx, teamID, "request_number")
	if err != nil {
		s.logger.Error("submit request generate number failed", zap.Error(err))
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r := &Request{
		ID:          uuid.New(),
		Number:      number,
		TeamID:      uuid.MustParse(teamID),
		UserID:      uuid.MustParse(userID),
		LeaveTypeID: uuid.MustParse(req.LeaveTypeID),
		StartDate:   start,
		EndDate:     end,
		TotalDays:   TotalDays(start, end),
		Comment:     req.Comment,
		Status:      StatusPending,
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("submit request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	admins, err := s.admins.ListAdminContacts(ctx, teamID)
	if err != nil {
		s.logger.Error("submit request list admins failed", zap.Error(err))
		return RequestResponse{}, err
	}

	event := events.RequestSubmittedEvent{
		EventType:     events.EventRequestSubmitted,
		RequestID:     r.ID.String(),
		Number:        r.Number,
		TeamID:        teamID,
		UserID:        userID,
		UserHandle:    handle,
		LeaveTypeID:   req.LeaveTypeID,
		LeaveTypeName: typeName,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalDays:     r.TotalDays,
		Comment:       req.Comment,
		Admins:        admins,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.queueEvent(ctx, tx, rid, r.ID.String(), event.EventType, event); err != nil {
		s.logger.Error("submit request outbox persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.logger.Info("submit request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", r.ID.String()),
		zap.Int64("number", r.Number),
		zap.String("team_id", teamID),
	)

	return mapToResponse(*r), nil
}

// buildSubmissionInput gathers settings, forbidden dates, active
// periods and quota usage. The reads run before the insert transaction,
// so two racing submissions can both pass the quota check; the team
// admin still decides each request by hand.
func (s *service) buildSubmissionInput(ctx context.Context, teamID, userID, role string, start, end time.Time) (SubmissionInput, error) {
	settings, err := s.settings.Get(ctx, teamID)
	if err != nil {
		return SubmissionInput{}, err
	}

	input := SubmissionInput{
		Start:    start,
		End:      end,
		Role:     role,
		Settings: settings,
	}

	if end.Before(start) {
		// The pipeline rejects this first; no point fetching the rest.
		return input, nil
	}

	firstForbidden, err := s.forbidden.FirstForbiddenDate(ctx, teamID, start, end)
	if err != nil {
		return SubmissionInput{}, err
	}
	input.FirstForbidden = firstForbidden

	active, err := s.repo.ListActiveByTeam(ctx, teamID)
	if err != nil {
		return SubmissionInput{}, err
	}
	for _, a := range active {
		input.Active = append(input.Active, ActivePeriod{
			Start:     a.StartDate,
			End:       a.EndDate,
			OwnerName: a.OwnerName,
			OwnerRole: a.OwnerRole,
		})
	}

	used, err := s.repo.AnnualUsedDays(ctx, userID, start.Year())
	if err != nil {
		return SubmissionInput{}, err
	}
	input.UsedDays = used

	return input, nil
}

func (s *service) Cancel(ctx context.Context, teamID, userID, id string) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("cancel request requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("user_id", userID),
	)

	r, err := s.repo.FindByIDAndTeam(ctx, teamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	if r.UserID.String() != userID {
		return RequestResponse{}, requesterrors.ErrNotOwner
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return RequestResponse{}, requesterrors.ErrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	moved, err := qtx.UpdateStatus(ctx, id, StatusPending, StatusCancelled, r.AdminComment)
	if err != nil {
		s.logger.Error("cancel request transition failed", zap.Error(err))
		return RequestResponse{}, err
	}
	if !moved {
		// Decided or cancelled between the read and the update.
		return RequestResponse{}, requesterrors.ErrNotPending
	}

	event := events.RequestCancelledEvent{
		EventType:  events.EventRequestCancelled,
		RequestID:  r.ID.String(),
		Number:     r.Number,
		TeamID:     teamID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.queueEvent(ctx, tx, rid, r.ID.String(), event.EventType, event); err != nil {
		s.logger.Error("cancel request outbox persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}

	s.logger.Info("cancel request success",
		zap.String("leave_request_id", id),
		zap.String("user_id", userID),
	)

	r.Status = StatusCancelled
	return mapToResponse(*r), nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]RequestResponse, error) {
	reqs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]RequestResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) ListPending(ctx context.Context, teamID string) ([]RequestResponse, error) {
	rows, err := s.repo.ListPendingByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return mapOwnerRowsToResponse(rows), nil
}

func (s *service) ListByYear(ctx context.Context, teamID string, year int) ([]RequestResponse, error) {
	rows, err := s.repo.ListByTeamAndYear(ctx, teamID, year)
	if err != nil {
		return nil, err
	}
	return mapOwnerRowsToResponse(rows), nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, rid, aggregateID, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         events.RequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:           r.ID.String(),
		Number:       r.Number,
		TeamID:       r.TeamID.String(),
		UserID:       r.UserID.String(),
		LeaveTypeID:  r.LeaveTypeID.String(),
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		TotalDays:    r.TotalDays,
		Comment:      r.Comment,
		AdminComment: r.AdminComment,
		Status:       r.Status,
	}
}

func mapOwnerRowsToResponse(rows []RequestWithOwner) []RequestResponse {
	resp := make([]RequestResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row.Request)
		resp[i].OwnerName = row.OwnerName
	}
	return resp
}
