// middleware/enforce.go

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	praxis_errors "github.com/counselware/praxis/errors"
	logger "github.com/counselware/praxis/logging"
	pdp_model "github.com/counselware/praxis/pdp/model"
	"github.com/counselware/praxis/service"
	"github.com/counselware/praxis/util"
)

// Enforce runs the route's access policy before the handler. Resource and
// matter context come from the route parameters named by the policy caller.
func Enforce(policy pdp_model.RoutePolicy, accessService service.IAccessService, resourceParam, matterParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := util.PrincipalFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		resourceID := paramOrQuery(c, resourceParam)
		matterID := paramOrQuery(c, matterParam)

		decision, err := accessService.CheckAccess(c.Request.Context(), principal, policy, resourceID, matterID)
		if err != nil {
			abortWithDenial(c, err)
			return
		}

		c.Set("accessDecision", decision)
		c.Next()
	}
}

func abortWithDenial(c *gin.Context, err error) {
	if errors.Is(err, praxis_errors.ErrAuthenticationMissing) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
		return
	}

	var denial *praxis_errors.AccessDeniedError
	if errors.As(err, &denial) {
		body := gin.H{"error": "Forbidden", "reason": denial.Reason}
		if denial.ConflictType != "" {
			body["conflictType"] = string(denial.ConflictType)
		}
		if denial.Classification != nil {
			body["classification"] = denial.Classification.String()
		}
		c.JSON(http.StatusForbidden, body)
		c.Abort()
		return
	}

	logger.Error("Access check failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	c.Abort()
}

func paramOrQuery(c *gin.Context, name string) string {
	if name == "" {
		return ""
	}
	if value := c.Param(name); value != "" {
		return value
	}
	return c.Query(name)
}
