package forbidden

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
	dates := r.Group("/forbidden-dates")
	dates.Use(middleware.AuthMiddleware())
	{
		dates.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceForbidden, rbac.ActionManage), handler.List)
		dates.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceForbidden, rbac.ActionManage), handler.AddRange)
		dates.DELETE("", middleware.RBACAuthorize(rbacService, rbac.ResourceForbidden, rbac.ActionManage), handler.Remove)
	}
}
