package leavetype

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	leavetypeerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/leavetype/errors"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, teamID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, teamID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, teamID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, teamID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, teamID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, teamID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if req.DaysPerYear <= 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidDaysPerYear
	}

	lt := &LeaveType{
		ID:          uuid.New(),
		TeamID:      uuid.MustParse(teamID),
		Name:        req.Name,
		DaysPerYear: req.DaysPerYear,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type failed", zap.String("team_id", teamID), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("team_id", teamID),
		zap.String("name", lt.Name),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, teamID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, teamID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndTeam(ctx, teamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, teamID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if req.DaysPerYear <= 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidDaysPerYear
	}

	lt, err := s.repo.FindByIDAndTeam(ctx, teamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	lt.Name = req.Name
	lt.DaysPerYear = req.DaysPerYear
	lt.Description = req.Description

	if err := s.repo.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("update leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, teamID, id string) error {
	if _, err := s.repo.FindByIDAndTeam(ctx, teamID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavetypeerrors.ErrLeaveTypeNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, teamID, id); err != nil {
		s.logger.Error("delete leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete leave type success", zap.String("leave_type_id", id))
	return nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          lt.ID.String(),
		TeamID:      lt.TeamID.String(),
		Name:        lt.Name,
		DaysPerYear: lt.DaysPerYear,
		Description: lt.Description,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
