package access

import (
	"fieldserve/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	me := r.Group("/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/context", h.GetContext)
		me.GET("/companies", h.GetCompanies)
	}
}
