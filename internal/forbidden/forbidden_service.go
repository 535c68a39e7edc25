package forbidden

import (
	"context"
	"time"

	"go.uber.org/zap"

	forbiddenerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/forbidden/errors"
)

//go:generate mockgen -source=forbidden_service.go -destination=mock/forbidden_service_mock.go -package=mock
type Service interface {
	AddRange(ctx context.Context, teamID string, req AddRangeRequest) ([]ForbiddenDateResponse, error)
	Remove(ctx context.Context, teamID string, req RemoveDateRequest) error
	List(ctx context.Context, teamID string) ([]ForbiddenDateResponse, error)

	// FirstForbiddenInRange backs the submit validator.
	FirstForbiddenInRange(ctx context.Context, teamID string, start, end time.Time) (*ForbiddenDate, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("forbidden.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("forbidden.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) AddRange(ctx context.Context, teamID string, req AddRangeRequest) ([]ForbiddenDateResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, forbiddenerrors.ErrInvalidDateRange
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	if err := s.repo.AddDates(ctx, teamID, dates, req.Note); err != nil {
		s.logger.Error("add forbidden range failed",
			zap.String("team_id", teamID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("add forbidden range success",
		zap.String("team_id", teamID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("days", len(dates)),
	)

	resp := make([]ForbiddenDateResponse, len(dates))
	for i, d := range dates {
		resp[i] = ForbiddenDateResponse{Date: d.Format("2006-01-02"), Note: req.Note}
	}
	return resp, nil
}

func (s *service) Remove(ctx context.Context, teamID string, req RemoveDateRequest) error {
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	removed, err := s.repo.Remove(ctx, teamID, date)
	if err != nil {
		s.logger.Error("remove forbidden date failed",
			zap.String("team_id", teamID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return err
	}
	if !removed {
		return forbiddenerrors.ErrDateNotForbidden
	}

	s.logger.Info("remove forbidden date success",
		zap.String("team_id", teamID),
		zap.String("date", req.Date),
	)
	return nil
}

func (s *service) List(ctx context.Context, teamID string) ([]ForbiddenDateResponse, error) {
	dates, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp := make([]ForbiddenDateResponse, len(dates))
	for i, fd := range dates {
		resp[i] = ForbiddenDateResponse{
			Date: fd.Date.Format("2006-01-02"),
			Note: fd.Note,
		}
	}
	return resp, nil
}

func (s *service) FirstForbiddenInRange(ctx context.Context, teamID string, start, end time.Time) (*ForbiddenDate, error) {
	return s.repo.FirstInRange(ctx, teamID, start, end)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, forbiddenerrors.ErrInvalidDateFormat
	}
	return t, nil
}
