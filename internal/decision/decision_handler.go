package decision

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
	l := zap.L().Named("decision.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("decision.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("decision operation failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Begin(c *gin.Context) {
	teamID := c.GetString("team_id")
	adminID := c.GetString("user_id")

	var req BeginDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http begin decision validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Begin(c.Request.Context(), teamID, adminID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Finalize(c *gin.Context) {
	teamID := c.GetString("team_id")
	adminID := c.GetString("user_id")

	var req FinalizeDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http finalize decision validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Finalize(c.Request.Context(), teamID, adminID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Current(c *gin.Context) {
	adminID := c.GetString("user_id")

	resp, err := h.service.Current(c.Request.Context(), adminID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
