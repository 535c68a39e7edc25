package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/response"
)

type Handler struct {
	service  Service
	settings SettingsService
	logger   *zap.Logger
}

func NewHandler(service Service, settings SettingsService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("team.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.handler")
	}
	return &Handler{service: service, settings: settings, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("team request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Register(c *gin.Context) {
	userID := c.GetString("user_id")

	var req RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http register team validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetSettings(c *gin.Context) {
	teamID := c.GetString("team_id")

	settings, err := h.settings.Get(c.Request.Context(), teamID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, SettingsResponse{
		AnnualQuota:   settings.AnnualQuota,
		PerRequestCap: settings.PerRequestCap,
		OverlapPolicy: settings.OverlapPolicy,
	}, nil)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	teamID := c.GetString("team_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update settings validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), teamID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, SettingsResponse{
		AnnualQuota:   settings.AnnualQuota,
		PerRequestCap: settings.PerRequestCap,
		OverlapPolicy: settings.OverlapPolicy,
	}, nil)
}
