package employee

import (
	"fieldserve/internal/access"
	"fieldserve/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, accessService access.Service) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(accessService, "employee", "read"), h.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(accessService, "employee", "read"), h.GetByID)
		employees.POST("", middleware.RBACAuthorize(accessService, "employee", "create"), h.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(accessService, "employee", "update"), h.Update)
	}
}
