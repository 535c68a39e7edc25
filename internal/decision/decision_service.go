package decision

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

	decisionerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/decision/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/request"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/contextutil"
)

//go:generate mockgen -source=decision_service.go -destination=mock/decision_service_mock.go -package=mock
type Service interface {
	Begin(ctx context.Context, teamID, adminID string, req BeginDecisionRequest) (PendingActionResponse, error)
	Finalize(ctx context.Context, teamID, adminID string, req FinalizeDecisionRequest) (request.RequestResponse, error)
	Current(ctx context.Context, adminID string) (PendingActionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	requests request.Repository
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	requests request.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("decision.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("decision.service")
	}
	return &service{db: db, repo: repo, requests: requests, outbox: outbox, logger: l}
}

// Begin picks a request for decision. The slot is keyed by admin, so a
// second Begin overwrites the first; only the finalized one counts.
func (s *service) Begin(ctx context.Context, teamID, adminID string, req BeginDecisionRequest) (PendingActionResponse, error) {
	s.logger.Debug("begin decision requested",
		zap.String("admin_id", adminID),
		zap.String("leave_request_id", req.RequestID),
		zap.String("action", req.Action),
	)

	if req.Action != ActionApprove && req.Action != ActionReject {
		return PendingActionResponse{}, decisionerrors.ErrInvalidAction
	}

	r, err := s.requests.FindByIDAndTeam(ctx, teamID, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PendingActionResponse{}, decisionerrors.ErrRequestNotFound
		}
		return PendingActionResponse{}, err
	}
	if r.Status != request.StatusPending {
		return PendingActionResponse{}, decisionerrors.ErrRequestNotPending
	}

	action := &PendingAdminAction{
		AdminID:   uuid.MustParse(adminID),
		RequestID: r.ID,
		Action:    req.Action,
	}
	if err := s.repo.Upsert(ctx, action); err != nil {
		s.logger.Error("begin decision persist failed", zap.Error(err))
		return PendingActionResponse{}, err
	}

	s.logger.Info("begin decision success",
		zap.String("admin_id", adminID),
		zap.String("leave_request_id", req.RequestID),
		zap.String("action", req.Action),
	)

	return mapActionToResponse(action), nil
}

// Finalize applies the slotted action with the given comment and clears
// the slot. The status update is guarded on pending, so a cancel or a
// rival admin that got there first turns this into ErrRequestNotPending
// instead of a double decision.
func (s *service) Finalize(ctx context.Context, teamID, adminID string, req FinalizeDecisionRequest) (request.RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("finalize decision requested",
		zap.String("request_id", rid),
		zap.String("admin_id", adminID),
	)

	action, err := s.repo.FindByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return request.RequestResponse{}, decisionerrors.ErrNoActiveAction
		}
		return request.RequestResponse{}, err
	}

	r, err := s.requests.FindByIDAndTeam(ctx, teamID, action.RequestID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The request was cancelled or its owner left while the
			// admin was typing. Drop the stale slot.
			if delErr := s.repo.DeleteByAdmin(ctx, adminID); delErr != nil {
				s.logger.Error("finalize decision clear stale slot failed", zap.Error(delErr))
			}
			return request.RequestResponse{}, decisionerrors.ErrRequestNotFound
		}
		return request.RequestResponse{}, err
	}

	to := request.StatusApproved
	if action.Action == ActionReject {
		to = request.StatusRejected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("finalize decision begin tx failed", zap.Error(err))
		return request.RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qreq := s.requests.WithTx(tx)

	moved, err := qreq.UpdateStatus(ctx, r.ID.String(), request.StatusPending, to, req.Comment)
	if err != nil {
		s.logger.Error("finalize decision transition failed", zap.Error(err))
		return request.RequestResponse{}, err
	}
	if !moved {
		if err := qtx.ClearByAdmin(ctx, tx, adminID); err != nil {
			s.logger.Error("finalize decision clear slot failed", zap.Error(err))
			return request.RequestResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return request.RequestResponse{}, err
		}
		return request.RequestResponse{}, decisionerrors.ErrRequestNotPending
	}

	if err := qtx.ClearByAdmin(ctx, tx, adminID); err != nil {
		s.logger.Error("finalize decision clear slot failed", zap.Error(err))
		return request.RequestResponse{}, err
	}

	event := events.RequestDecidedEvent{
		EventType:    events.EventRequestDecided,
		RequestID:    r.ID.String(),
		Number:       r.Number,
		TeamID:       teamID,
		UserID:       r.UserID.String(),
		Status:       to,
		AdminID:      adminID,
		AdminComment: req.Comment,
		OccurredAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return request.RequestResponse{}, fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   r.ID.String(),
		EventType:     event.EventType,
		Topic:         events.RequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("finalize decision outbox persist failed", zap.Error(err))
		return request.RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("finalize decision commit failed", zap.Error(err))
		return request.RequestResponse{}, err
	}

	s.logger.Info("finalize decision success",
		zap.String("admin_id", adminID),
		zap.String("leave_request_id", r.ID.String()),
		zap.String("status", to),
	)

	r.Status = to
	r.AdminComment = req.Comment
	return mapRequestToResponse(r), nil
}

func (s *service) Current(ctx context.Context, adminID string) (PendingActionResponse, error) {
	action, err := s.repo.FindByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PendingActionResponse{}, decisionerrors.ErrNoActiveAction
		}
		return PendingActionResponse{}, err
	}
	return mapActionToResponse(action), nil
}

func mapActionToResponse(a *PendingAdminAction) PendingActionResponse {
	return PendingActionResponse{
		AdminID:   a.AdminID.String(),
		RequestID: a.RequestID.String(),
		Action:    a.Action,
	}
}

func mapRequestToResponse(r *request.Request) request.RequestResponse {
	return request.RequestResponse{
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
