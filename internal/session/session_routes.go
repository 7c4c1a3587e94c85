package session

import (
	"go-offboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("", middleware.RBACAuthorize(rbacService, "session", "create"), handler.Create)
		sessions.GET("", middleware.RBACAuthorize(rbacService, "session", "read"), handler.GetAll)
		sessions.GET("/:id", middleware.RBACAuthorize(rbacService, "session", "read"), handler.GetById)
		sessions.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "session", "update"), handler.Cancel)
		sessions.POST("/:id/tasks/:taskId/start", middleware.RBACAuthorize(rbacService, "session", "update"), handler.StartTask)
		sessions.POST("/:id/tasks/:taskId/complete", middleware.RBACAuthorize(rbacService, "session", "update"), handler.CompleteTask)
	}
}
