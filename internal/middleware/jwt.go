package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/service"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid gateway-issued access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the claims attached by JWT, or nil when the route is
// unauthenticated.
func CurrentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// SessionDeptID resolves the acting department for scan and report routes.
// Department and faculty sessions are pinned to their own department; admins
// and guards may name one explicitly.
func SessionDeptID(c *gin.Context, requested string) string {
	claims := CurrentClaims(c)
	if claims == nil {
		return strings.TrimSpace(requested)
	}
	switch claims.Role {
	case models.RoleDepartment, models.RoleFaculty:
		return claims.DeptID
	}
	return strings.TrimSpace(requested)
}
