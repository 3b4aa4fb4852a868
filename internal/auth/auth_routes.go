package auth

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Login dibatasi per IP untuk menahan brute force
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)

		authGroup.POST("/change-password", middleware.AuthMiddleware(), handler.ChangePassword)
	}
}
