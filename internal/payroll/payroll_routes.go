package payroll

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		runs.GET("/preview", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPreview)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		runs.GET("/history/driver/:driverId", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetDriverHistory)

		runs.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), middleware.Idempotency(rdb), handler.Create)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)

		// Transisi lifecycle dijaga permission terpisah dari create.
		runs.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		runs.POST("/:id/process-deductions", middleware.RBACAuthorize(rbacService, "payroll", "process"), middleware.Idempotency(rdb), handler.ProcessDeductions)
		runs.POST("/:id/close", middleware.RBACAuthorize(rbacService, "payroll", "close"), handler.Close)
	}
}
