package app

import (
	"database/sql"

	"fieldserve/internal/access"
	"fieldserve/internal/access/infra"
	"fieldserve/internal/employee"
	"fieldserve/internal/messaging/kafka"
	"fieldserve/internal/middleware"
	"fieldserve/internal/payroll"
	"fieldserve/internal/schedule"
	"fieldserve/internal/timeentry"

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
	accessRepo := access.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	timeEntryRepo := timeentry.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Access Control Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	accessService := access.NewService(accessRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	timeEntryService := timeentry.NewService(db, timeEntryRepo, scheduleRepo)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, outboxRepo)
	stubService := payroll.NewStubService(db, payrollRepo)

	// --- Handlers ---
	accessHandler := access.NewHandler(accessService)
	employeeHandler := employee.NewHandler(employeeService)
	timeEntryHandler := timeentry.NewHandler(timeEntryService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, stubService, rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		access.RegisterRoutes(api, accessHandler)
		employee.RegisterRoutes(api, employeeHandler, accessService)
		timeentry.RegisterRoutes(api, timeEntryHandler, accessService)
		payroll.RegisterRoutes(api, payrollHandler, accessService, rdb)
	}

	return nil
}
