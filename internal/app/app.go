package app

import (
	"os"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/middleware"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func BuildApp(router *gin.Engine) error {
	gormDB, db, err := openDatabase()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	return registerModules(router, db, gormDB, redisClient)
}
