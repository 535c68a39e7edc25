package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/contact", middleware.RateLimitByIP(1, 5), handler.Contact)
		auth.POST("/refresh", handler.RefreshToken)
	}
}
