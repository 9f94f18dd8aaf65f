// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// PrincipalFromContext returns the authenticated principal placed on the gin
// context by the auth middleware.
func PrincipalFromContext(c *gin.Context) (*model.Principal, bool) {
	value, exists := c.Get("principal")
	if !exists {
		return nil, false
	}
	principal, ok := value.(*model.Principal)
	return principal, ok
}
