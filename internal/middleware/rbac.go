package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
	"github.com/Ehud-Guzman/customerfeedback/pkg/response"
)

// RequireRoles allows the request when the effective role is one of roles. The
// tenant-scoped role wins over the token role once Tenant has run.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := effectiveRole(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, permitted := allowed[role]; !permitted {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func effectiveRole(c *gin.Context) (models.UserRole, bool) {
	if tenant, ok := CurrentTenant(c); ok && tenant.Role != "" {
		return tenant.Role, true
	}
	claims, ok := CurrentClaims(c)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
