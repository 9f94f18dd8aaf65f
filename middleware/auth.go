// middleware/auth.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/counselware/praxis/config"
	logger "github.com/counselware/praxis/logging"
	"github.com/counselware/praxis/model"
)

// WallResolver looks up the active ethical wall screening a principal, if any.
type WallResolver interface {
	GetWallForPrincipal(ctx context.Context, principalID string) (*model.EthicalWall, error)
}

// PrincipalClaims is the token payload issued by the firm's identity service.
type PrincipalClaims struct {
	jwt.RegisteredClaims
	OrganizationID     string   `json:"org"`
	Roles              []string `json:"roles"`
	Permissions        []string `json:"permissions"`
	IsAttorney         bool     `json:"attorney"`
	BarAdmissions      []string `json:"barAdmissions"`
	MatterIDs          []string `json:"matters"`
	ClientIDs          []string `json:"clients"`
	FormerClientIDs    []string `json:"formerClients"`
	WaiverIDs          []string `json:"waivers"`
	JointDefenseGroups []string `json:"jointDefenseGroups"`
}

// Auth authenticates the bearer token, builds the principal it describes, and
// attaches any active ethical wall before handlers run.
func Auth(walls WallResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			logger.Warn("Failed to parse token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		principal := principalFromClaims(claims)

		wall, err := walls.GetWallForPrincipal(c.Request.Context(), principal.ID)
		if err != nil {
			logger.Error("Failed to resolve ethical wall for principal",
				zap.Error(err),
				zap.String("principalID", principal.ID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		principal.Wall = wall

		c.Set("principal", principal)
		c.Next()
	}
}

func parseToken(tokenString string) (*PrincipalClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	secret := []byte(config.GetString("auth.jwtSecret"))

	token, err := jwt.ParseWithClaims(tokenString, &PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(config.GetString("auth.issuer")))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*PrincipalClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token or wrong claims type")
	}
	return claims, nil
}

func principalFromClaims(claims *PrincipalClaims) *model.Principal {
	roles := make([]model.Role, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		roles = append(roles, model.Role(role))
	}

	permissions := make([]model.Permission, 0, len(claims.Permissions))
	for _, permission := range claims.Permissions {
		permissions = append(permissions, model.Permission(permission))
	}

	return &model.Principal{
		ID:                 claims.Subject,
		OrganizationID:     claims.OrganizationID,
		Roles:              roles,
		Permissions:        model.NewPermissionSet(permissions...),
		IsAttorney:         claims.IsAttorney,
		BarAdmissions:      claims.BarAdmissions,
		MatterIDs:          claims.MatterIDs,
		ClientIDs:          claims.ClientIDs,
		FormerClientIDs:    claims.FormerClientIDs,
		WaiverIDs:          claims.WaiverIDs,
		JointDefenseGroups: claims.JointDefenseGroups,
	}
}
