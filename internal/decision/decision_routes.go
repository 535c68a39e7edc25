package decision

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
	decisions := r.Group("/decisions")
	decisions.Use(middleware.AuthMiddleware())
	decisions.Use(middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionDecide))
	{
		decisions.POST("/begin", handler.Begin)
		decisions.POST("/finalize", handler.Finalize)
		decisions.GET("/current", handler.Current)
	}
}
