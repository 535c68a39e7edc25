package member

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("member.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("member request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Invite(c *gin.Context) {
	teamID := c.GetString("team_id")

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http invite validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Invite(c.Request.Context(), teamID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Remove(c *gin.Context) {
	teamID := c.GetString("team_id")
	actorID := c.GetString("user_id")
	memberID := c.Param("id")

	if err := h.service.Remove(c.Request.Context(), teamID, actorID, memberID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true}, nil)
}

func (h *Handler) LeaveTeam(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.service.LeaveTeam(c.Request.Context(), userID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"left": true}, nil)
}

func (h *Handler) SetRole(c *gin.Context) {
	teamID := c.GetString("team_id")
	memberID := c.Param("id")

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http set role validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.SetRole(c.Request.Context(), teamID, memberID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	teamID := c.GetString("team_id")

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a number", nil)
		return
	}

	resp, err := h.service.ListTeam(c.Request.Context(), teamID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
