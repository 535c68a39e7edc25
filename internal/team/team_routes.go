package team

import (
	"github.com/gin-gonic/gin"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/middleware"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	teams := r.Group("/teams")
	teams.Use(middleware.AuthMiddleware())
	{
		teams.POST("/register", handler.Register)
		teams.GET("/settings", middleware.RBACAuthorize(rbacService, rbac.ResourceSettings, rbac.ActionRead), handler.GetSettings)
		teams.PUT("/settings", middleware.RBACAuthorize(rbacService, rbac.ResourceSettings, rbac.ActionManage), handler.UpdateSettings)
	}
}
