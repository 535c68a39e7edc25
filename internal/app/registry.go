package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/auth"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/decision"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/forbidden"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/leavetype"
	leavetypeerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/leavetype/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/member"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/rbac"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/request"
	requesterrors "github.com/chikibriki1888/telegram-vacation-bot/internal/request/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/counter"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	teamRepo := team.NewRepository(gormDB)
	memberRepo := member.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	decisionRepo := decision.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	forbiddenRepo := forbidden.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	settingsService := team.NewSettingsService(teamRepo, rdb)
	teamService := team.NewService(db, teamRepo, memberRepo)
	memberService := member.NewService(db, memberRepo, teamRepo, outboxRepo, requestRepo, decisionRepo, requestRepo)
	authService := auth.NewService(memberService)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	forbiddenService := forbidden.NewService(forbiddenRepo)
	requestService := request.NewService(
		db,
		requestRepo,
		counterRepo,
		outboxRepo,
		settingsService,
		&forbiddenChecker{forbiddenService},
		&leaveTypeResolver{leaveTypeService},
		&adminLister{memberRepo},
	)
	decisionService := decision.NewService(db, decisionRepo, requestRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	teamHandler := team.NewHandler(teamService, settingsService)
	memberHandler := member.NewHandler(memberService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	forbiddenHandler := forbidden.NewHandler(forbiddenService)
	requestHandler := request.NewHandler(requestService)
	decisionHandler := decision.NewHandler(decisionService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		team.RegisterRoutes(api, teamHandler, rbacService)
		member.RegisterRoutes(api, memberHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		forbidden.RegisterRoutes(api, forbiddenHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService, rdb)
		decision.RegisterRoutes(api, decisionHandler, rbacService)
	}

	return nil
}

// forbiddenChecker adapts the forbidden service to the submission
// pipeline's narrower view.
type forbiddenChecker struct {
	service forbidden.Service
}

func (a *forbiddenChecker) FirstForbiddenDate(ctx context.Context, teamID string, start, end time.Time) (*time.Time, error) {
	fd, err := a.service.FirstForbiddenInRange(ctx, teamID, start, end)
	if err != nil {
		return nil, err
	}
	if fd == nil {
		return nil, nil
	}
	return &fd.Date, nil
}

type leaveTypeResolver struct {
	service leavetype.Service
}

func (a *leaveTypeResolver) ResolveName(ctx context.Context, teamID, leaveTypeID string) (string, error) {
	lt, err := a.service.GetByID(ctx, teamID, leaveTypeID)
	if err != nil {
		if errors.Is(err, leavetypeerrors.ErrLeaveTypeNotFound) {
			return "", requesterrors.ErrLeaveTypeNotInTeam
		}
		return "", err
	}
	return lt.Name, nil
}

type adminLister struct {
	repo member.Repository
}

func (a *adminLister) ListAdminContacts(ctx context.Context, teamID string) ([]events.AdminContact, error) {
	admins, err := a.repo.ListAdminsByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	contacts := make([]events.AdminContact, len(admins))
	for i, u := range admins {
		c := events.AdminContact{UserID: u.ID.String(), Handle: u.Handle}
		if u.ExternalID != nil {
			c.ExternalID = *u.ExternalID
		}
		contacts[i] = c
	}
	return contacts, nil
}
