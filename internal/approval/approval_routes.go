package approval

import (
	"go-offboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.POST("",
			middleware.RBACAuthorize(rbacService, "approval", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		approvals.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.Approve)
		approvals.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.Reject)
		approvals.POST("/:id/delegate", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.Delegate)
		approvals.POST("/:id/escalate", middleware.RBACAuthorize(rbacService, "approval", "escalate"), handler.Escalate)

		approvals.GET("/templates", middleware.RBACAuthorize(rbacService, "template", "read"), handler.ListTemplates)
		approvals.GET("/pending/:approverId", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetPending)
		approvals.GET("/session/:sessionId", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetBySession)
		approvals.GET("/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetById)
	}
}
