package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceCatalog, rbac.ActionRead), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceCatalog, rbac.ActionRead), handler.GetById)
		types.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceCatalog, rbac.ActionManage), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceCatalog, rbac.ActionManage), handler.Update)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceCatalog, rbac.ActionManage), handler.Delete)
	}
}
