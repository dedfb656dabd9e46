package payroll

import (
	"encoding/json"
	"net/http"
	"time"

	"fieldserve/internal/shared/apperror"
	"fieldserve/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	stubs   StubService
	rdb     *redis.Client
}

func NewHandler(service Service, stubs StubService) *Handler {
	return &Handler{service: service, stubs: stubs}
}

func NewHandlerWithRedis(service Service, stubs StubService, rdb *redis.Client) *Handler {
	return &Handler{service: service, stubs: stubs, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

// GenerateRun creates a draft run for an explicit period. Requests carrying an
// Idempotency-Key replay the cached response instead of generating twice.
func (h *Handler) GenerateRun(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req GenerateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GenerateRun(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetRuns(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetRuns(c.Request.Context(), companyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRunByID(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetRunByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) FinalizeRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	resp, err := h.service.FinalizeRun(c.Request.Context(), companyID, actorID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteRun(c *gin.Context) {
	companyID := c.GetString("company_id")

	if err := h.service.DeleteRun(c.Request.Context(), companyID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) BuildStubs(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.stubs.BuildStubs(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetStubs(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.stubs.GetStubs(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// GetMyStub lets an employee read their own stub for a run.
func (h *Handler) GetMyStub(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	resp, err := h.stubs.GetStubForEmployee(c.Request.Context(), companyID, c.Param("id"), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// AutoRun triggers one scheduler tick for the caller's company on demand,
// with the same skip semantics as the background sweep.
func (h *Handler) AutoRun(c *gin.Context) {
	companyID := c.GetString("company_id")

	result, err := h.service.AutoRunTick(c.Request.Context(), companyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == AutoRunCreated {
		status = http.StatusCreated
	}
	response.Success(c, status, result, nil)
}

func (h *Handler) GetSettings(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetSettings(c.Request.Context(), companyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateSettings(c.Request.Context(), companyID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
