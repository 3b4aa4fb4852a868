package app

import (
	"database/sql"
	"path/filepath"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/advance"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/auth"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/client"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/eventlog"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/payroll"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/rbac"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/rbac/infra"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	driverRepo := driver.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	commissionRepo := commission.NewRepository(gormDB)
	advanceRepo := advance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	eventLogRepo := eventlog.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	driverService := driver.NewService(db, driverRepo, rdb)
	clientService := client.NewService(clientRepo)
	commissionService := commission.NewService(db, commissionRepo, driverRepo, clientRepo)
	advanceService := advance.NewService(advanceRepo, driverRepo)
	eventLogService := eventlog.NewService(eventLogRepo)

	calculator := payroll.NewCalculator(commissionRepo, advanceRepo)
	payrollService := payroll.NewService(
		db, payrollRepo, driverRepo, advanceRepo,
		calculator, counterRepo, outboxRepo,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	driverHandler := driver.NewHandler(driverService)
	clientHandler := client.NewHandler(clientService)
	commissionHandler := commission.NewHandler(commissionService)
	advanceHandler := advance.NewHandler(advanceService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	eventLogHandler := eventlog.NewHandler(eventLogService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		driver.RegisterRoutes(api, driverHandler, rbacService)
		client.RegisterRoutes(api, clientHandler, rbacService)
		commission.RegisterRoutes(api, commissionHandler, rbacService)
		advance.RegisterRoutes(api, advanceHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		eventlog.RegisterRoutes(api, eventLogHandler, rbacService)
	}

	return nil
}
