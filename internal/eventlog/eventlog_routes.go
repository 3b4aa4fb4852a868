package eventlog

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	logs := r.Group("/event-log")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "event_log", "read"), handler.GetRecent)
		logs.GET("/:aggregateType/:aggregateId", middleware.RBACAuthorize(rbacService, "event_log", "read"), handler.GetByAggregate)
	}
}
