package client

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	clients := r.Group("/clients")
	clients.Use(middleware.AuthMiddleware())
	{
		clients.GET("", middleware.RBACAuthorize(rbacService, "client", "read"), handler.GetAll)
		clients.GET("/active", middleware.RBACAuthorize(rbacService, "client", "read"), handler.GetActive)
		clients.GET("/:id", middleware.RBACAuthorize(rbacService, "client", "read"), handler.GetByID)
		clients.POST("", middleware.RBACAuthorize(rbacService, "client", "create"), handler.Create)
		clients.PUT("/:id", middleware.RBACAuthorize(rbacService, "client", "update"), handler.Update)
		clients.DELETE("/:id", middleware.RBACAuthorize(rbacService, "client", "delete"), handler.Delete)
	}
}
