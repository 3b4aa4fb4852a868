package driver

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthMiddleware())
	{
		drivers.GET("", middleware.RBACAuthorize(rbacService, "driver", "read"), handler.GetAll)
		drivers.GET("/active", middleware.RBACAuthorize(rbacService, "driver", "read"), handler.GetActive)
		drivers.GET("/eligible", middleware.RBACAuthorize(rbacService, "driver", "read"), handler.GetEligible)
		drivers.GET("/options", middleware.RBACAuthorize(rbacService, "driver", "read"), handler.GetOptions)
		drivers.GET("/:id", middleware.RBACAuthorize(rbacService, "driver", "read"), handler.GetByID)
		drivers.POST("", middleware.RBACAuthorize(rbacService, "driver", "create"), handler.Create)
		drivers.PUT("/:id", middleware.RBACAuthorize(rbacService, "driver", "update"), handler.Update)
		drivers.DELETE("/:id", middleware.RBACAuthorize(rbacService, "driver", "delete"), handler.Delete)
	}
}
