package team

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/domain"
	teamerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/team/errors"
)

// MemberMover moves a user into a team with a role. Implemented by the
// member repository, wired at composition time to avoid a package cycle.
type MemberMover interface {
	MoveToTeam(ctx context.Context, tx *sql.Tx, userID, teamID, role string) error
}

//go:generate mockgen -source=team_service.go -destination=mock/team_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, userID string, req RegisterTeamRequest) (TeamResponse, error)
	GetByID(ctx context.Context, teamID string) (TeamResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	members MemberMover
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, members MemberMover, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{db: db, repo: repo, members: members, logger: l}
}

// Register creates the team on first use of the name, seeding its
// settings, or joins the caller to the team already carrying it. Either
// way the caller ends up in the team with the admin role they picked.
func (s *service) Register(ctx context.Context, userID string, req RegisterTeamRequest) (TeamResponse, error) {
	s.logger.Debug("register team requested",
		zap.String("user_id", userID),
		zap.String("name", req.Name),
		zap.String("role", req.Role),
	)

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return TeamResponse{}, teamerrors.ErrInvalidRole
	}
	if !role.IsAdmin() {
		return TeamResponse{}, teamerrors.ErrAdminRoleRequired
	}

	if existing, err := s.repo.FindTeamByName(ctx, req.Name); err == nil {
		if err := s.members.MoveToTeam(ctx, nil, userID, existing.ID.String(), string(role)); err != nil {
			s.logger.Error("register join team failed",
				zap.String("user_id", userID),
				zap.String("team_id", existing.ID.String()),
				zap.Error(err),
			)
			return TeamResponse{}, err
		}
		s.logger.Info("register joined existing team",
			zap.String("team_id", existing.ID.String()),
			zap.String("name", existing.Name),
			zap.String("user_id", userID),
		)
		return TeamResponse{ID: existing.ID.String(), Name: existing.Name}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TeamResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register team begin tx failed", zap.Error(err))
		return TeamResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t := &Team{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := qtx.CreateTeam(ctx, t); err != nil {
		s.logger.Warn("register team persist failed", zap.String("name", req.Name), zap.Error(err))
		return TeamResponse{}, mapRepositoryError(err)
	}

	teamID := t.ID.String()
	seeds := map[string]string{
		SettingKey(SettingAnnualQuota, teamID):   strconv.Itoa(DefaultAnnualQuota),
		SettingKey(SettingPerRequestCap, teamID): strconv.Itoa(DefaultPerRequestCap),
		SettingKey(SettingOverlapPolicy, teamID): DefaultOverlapPolicy,
	}
	for key, value := range seeds {
		if err := qtx.UpsertSetting(ctx, key, value); err != nil {
			s.logger.Error("register team seed setting failed", zap.String("key", key), zap.Error(err))
			return TeamResponse{}, err
		}
	}

	if err := s.members.MoveToTeam(ctx, tx, userID, teamID, string(role)); err != nil {
		s.logger.Error("register team move creator failed",
			zap.String("user_id", userID),
			zap.String("team_id", teamID),
			zap.Error(err),
		)
		return TeamResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register team commit failed", zap.Error(err))
		return TeamResponse{}, err
	}

	s.logger.Info("register team success",
		zap.String("team_id", teamID),
		zap.String("name", t.Name),
		zap.String("creator_id", userID),
	)

	return TeamResponse{ID: teamID, Name: t.Name}, nil
}

func (s *service) GetByID(ctx context.Context, teamID string) (TeamResponse, error) {
	t, err := s.repo.FindTeamByID(ctx, teamID)
	if err != nil {
		return TeamResponse{}, mapRepositoryError(err)
	}
	return TeamResponse{ID: t.ID.String(), Name: t.Name}, nil
}
