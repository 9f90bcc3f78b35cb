package decision

import (
	"go-leaveflow/internal/directory"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	decisions := r.Group("/decisions")
	decisions.Use(middleware.AuthMiddleware())
	decisions.Use(middleware.RequireRole(directory.RoleAdministrator))
	{
		decisions.GET("/:identity/:action", handler.DecideByPath)
		decisions.POST("/:identity", handler.Decide)
	}
}
