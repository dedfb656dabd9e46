package middleware

import (
	"net/http"

	"fieldserve/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeID = "employee_id"
	ContextCompanyID  = "company_id"
)

// Enforcer is satisfied by access.Service; declared locally so the middleware
// does not pin a concrete implementation.
type Enforcer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString(ContextEmployeeID)
		companyID := c.GetString(ContextCompanyID)

		if employeeID == "" || companyID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
