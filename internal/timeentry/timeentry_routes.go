package timeentry

import (
	"fieldserve/internal/access"
	"fieldserve/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, accessService access.Service) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("", middleware.RBACAuthorize(accessService, "time_entry", "read"), h.GetAll)
		entries.GET("/:id", middleware.RBACAuthorize(accessService, "time_entry", "read"), h.GetByID)
		entries.GET("/:id/adjustments", middleware.RBACAuthorize(accessService, "time_entry", "approve"), h.ListAdjustments)

		clock := entries.Group("")
		clock.Use(middleware.RateLimitByEmployee(rate.Limit(1), 3))
		{
			clock.POST("/clock-in", middleware.RBACAuthorize(accessService, "time_entry", "create"), h.ClockIn)
			clock.POST("/clock-out", middleware.RBACAuthorize(accessService, "time_entry", "create"), h.ClockOut)
		}

		entries.POST("/:id/approve", middleware.RBACAuthorize(accessService, "time_entry", "approve"), h.Approve)
		entries.POST("/:id/reject", middleware.RBACAuthorize(accessService, "time_entry", "approve"), h.Reject)
		entries.POST("/:id/update", middleware.RBACAuthorize(accessService, "time_entry", "approve"), h.Adjust)
		entries.POST("/bulk-approve", middleware.RBACAuthorize(accessService, "time_entry", "approve"), h.BulkApprove)
	}
}
