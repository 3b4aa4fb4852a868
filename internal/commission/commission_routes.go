package commission

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	orders := r.Group("/monthly-orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.GET("/matrix", middleware.RBACAuthorize(rbacService, "commission", "read"), handler.GetMatrix)
		orders.GET("/driver/:driverId", middleware.RBACAuthorize(rbacService, "commission", "read"), handler.GetByDriver)
		orders.GET("/:id", middleware.RBACAuthorize(rbacService, "commission", "read"), handler.GetByID)
		orders.POST("", middleware.RBACAuthorize(rbacService, "commission", "create"), handler.Create)
		orders.POST("/validate", middleware.RBACAuthorize(rbacService, "commission", "read"), handler.ValidateEntries)
		orders.PUT("/:id", middleware.RBACAuthorize(rbacService, "commission", "update"), handler.Update)
		orders.DELETE("/:id", middleware.RBACAuthorize(rbacService, "commission", "delete"), handler.Delete)
	}
}
