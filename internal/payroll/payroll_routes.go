package payroll

import (
	"fieldserve/internal/access"
	"fieldserve/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	accessService access.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll/runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(accessService, "payroll_run", "read"), h.GetRuns)
		runs.GET("/:id", middleware.RBACAuthorize(accessService, "payroll_run", "read"), h.GetRunByID)
		if redisClient != nil {
			runs.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(accessService, "payroll_run", "create"),
				h.GenerateRun,
			)
		} else {
			runs.POST("", middleware.RBACAuthorize(accessService, "payroll_run", "create"), h.GenerateRun)
		}
		runs.POST("/:id/finalize", middleware.RBACAuthorize(accessService, "payroll_run", "finalize"), h.FinalizeRun)
		runs.DELETE("/:id", middleware.RBACAuthorize(accessService, "payroll_run", "delete"), h.DeleteRun)

		runs.POST("/:id/paystubs", middleware.RBACAuthorize(accessService, "pay_stub", "create"), h.BuildStubs)
		runs.GET("/:id/paystubs", middleware.RBACAuthorize(accessService, "pay_stub", "read"), h.GetStubs)
		runs.GET("/:id/paystubs/me", h.GetMyStub)
	}

	autoRun := r.Group("/payroll/auto-run")
	autoRun.Use(middleware.AuthMiddleware())
	{
		autoRun.POST("", middleware.RBACAuthorize(accessService, "payroll_run", "create"), h.AutoRun)
	}

	settings := r.Group("/payroll/settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("", middleware.RBACAuthorize(accessService, "payroll_settings", "read"), h.GetSettings)
		settings.PUT("", middleware.RBACAuthorize(accessService, "payroll_settings", "update"), h.UpdateSettings)
	}
}
