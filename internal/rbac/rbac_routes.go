package rbac

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, handler *Handler) {
	r.POST("/rbac/enforce", handler.Enforce)
}
