package forbidden

import (
	"net/http"

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
	l := zap.L().Named("forbidden.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("forbidden.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("forbidden dates request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) AddRange(c *gin.Context) {
	teamID := c.GetString("team_id")

	var req AddRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http add forbidden range validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.AddRange(c.Request.Context(), teamID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Remove(c *gin.Context) {
	teamID := c.GetString("team_id")

	var req RemoveDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http remove forbidden date validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if err := h.service.Remove(c.Request.Context(), teamID, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true}, nil)
}

func (h *Handler) List(c *gin.Context) {
	teamID := c.GetString("team_id")

	resp, err := h.service.List(c.Request.Context(), teamID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
