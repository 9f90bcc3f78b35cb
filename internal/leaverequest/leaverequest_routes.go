package leaverequest

import (
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", handler.Submit)
		leaves.GET("", handler.GetAll)
		leaves.GET("/:identity", handler.GetByIdentity)
	}
}
