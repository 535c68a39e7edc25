package request

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/middleware"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionSubmit),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionCancel), handler.Cancel)
		requests.GET("/my", middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionListOwn), middleware.ExtractUserID(), handler.ListMine)
		requests.GET("/pending", middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionListTeam), handler.ListPending)
		requests.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceRequests, rbac.ActionListTeam), handler.ListByYear)
	}
}
