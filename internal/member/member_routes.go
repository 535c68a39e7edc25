package member

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
	members := r.Group("/members")
	members.Use(middleware.AuthMiddleware())
	{
		members.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceMembers, rbac.ActionManage), handler.List)
		members.POST("/invite", middleware.RBACAuthorize(rbacService, rbac.ResourceMembers, rbac.ActionManage), handler.Invite)
		members.PUT("/:id/role", middleware.RBACAuthorize(rbacService, rbac.ResourceMembers, rbac.ActionManage), handler.SetRole)
		members.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceMembers, rbac.ActionManage), handler.Remove)
		members.POST("/leave", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionLeave), middleware.ExtractUserID(), handler.LeaveTeam)
	}
}
