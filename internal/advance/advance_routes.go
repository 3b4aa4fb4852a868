package advance

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	advances := r.Group("/advances")
	advances.Use(middleware.AuthMiddleware())
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetAll)
		advances.GET("/driver/:driverId", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetByDriver)
		advances.GET("/driver/:driverId/outstanding", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetOutstandingSummary)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetByID)
		advances.POST("", middleware.RBACAuthorize(rbacService, "advance", "create"), handler.Create)
		advances.PUT("/:id", middleware.RBACAuthorize(rbacService, "advance", "update"), handler.Update)
		advances.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "advance", "update"), handler.Cancel)
		advances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "advance", "delete"), handler.Delete)
	}
}
