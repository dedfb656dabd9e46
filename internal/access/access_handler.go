package access

import (
	"net/http"

	"fieldserve/internal/shared/apperror"
	"fieldserve/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetContext(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, err := h.service.ActiveContext(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ctx, nil)
}

func (h *Handler) GetCompanies(c *gin.Context) {
	userID := c.GetString("user_id")

	companies, err := h.service.ResolveActorCompanies(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"company_ids": companies}, nil)
}
