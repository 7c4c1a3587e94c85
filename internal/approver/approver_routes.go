package approver

import (
	"go-offboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	approvers := r.Group("/approvers")
	approvers.Use(middleware.AuthMiddleware())
	{
		approvers.GET("", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetAll)
		approvers.GET("/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetById)
		approvers.POST("", middleware.RBACAuthorize(rbacService, "template", "admin"), handler.Create)
	}
}
