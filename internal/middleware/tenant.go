package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	"github.com/Ehud-Guzman/customerfeedback/internal/service"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
	"github.com/Ehud-Guzman/customerfeedback/pkg/response"
)

// Gin context keys populated by Tenant.
const (
	ContextOrgIDKey  = "orgId"
	ContextTenantKey = "tenant"
)

// Organization selection headers, in precedence order.
const (
	HeaderOrgID          = "X-Org-Id"
	HeaderOrganizationID = "X-Organization-Id"
	HeaderTenantID       = "X-Tenant-Id"
)

// TenantResolver maps an authenticated user and requested organization to a tenant scope.
type TenantResolver interface {
	Resolve(ctx context.Context, userID string, sel service.OrgSelection) (*models.TenantContext, error)
}

// Tenant resolves the organization scope of an authenticated request. It must run after JWT.
func Tenant(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		tenant, err := resolver.Resolve(c.Request.Context(), claims.SubjectID(), service.OrgSelection{
			OrgID:          strings.TrimSpace(c.GetHeader(HeaderOrgID)),
			OrganizationID: strings.TrimSpace(c.GetHeader(HeaderOrganizationID)),
			TenantID:       strings.TrimSpace(c.GetHeader(HeaderTenantID)),
		})
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextTenantKey, tenant)
		if tenant.OrgID != "" {
			c.Set(ContextOrgIDKey, tenant.OrgID)
		}
		c.Next()
	}
}

// RequireTenant rejects requests that resolved without an organization, such as a
// system administrator who sent no organization header.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if OrgID(c) == "" {
			response.Abort(c, appErrors.ErrTenantRequired)
			return
		}
		c.Next()
	}
}

// CurrentTenant returns the tenant scope attached by Tenant.
func CurrentTenant(c *gin.Context) (*models.TenantContext, bool) {
	value, exists := c.Get(ContextTenantKey)
	if !exists {
		return nil, false
	}
	tenant, ok := value.(*models.TenantContext)
	return tenant, ok && tenant != nil
}

// OrgID returns the resolved organization id or an empty string.
func OrgID(c *gin.Context) string {
	return c.GetString(ContextOrgIDKey)
}
