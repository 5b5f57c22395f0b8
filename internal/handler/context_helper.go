package handler

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/Ehud-Guzman/customerfeedback/internal/middleware"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

const maxBodyBytes = 1 << 20

// orgIDFromContext returns the organization resolved by the tenant middleware.
// Query and body values are never consulted.
func orgIDFromContext(c *gin.Context) (string, error) {
	orgID := middleware.OrgID(c)
	if orgID == "" {
		return "", appErrors.ErrTenantRequired
	}
	return orgID, nil
}

// bindJSON decodes a bounded JSON body into dest.
func bindJSON(c *gin.Context, dest interface{}) error {
	if c.Request == nil || c.Request.Body == nil {
		return appErrors.Clone(appErrors.ErrValidation, "request body required")
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "unreadable request body")
	}
	if len(raw) > maxBodyBytes {
		return appErrors.Clone(appErrors.ErrValidation, "request body too large")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "request body required")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload")
	}
	return nil
}

// withCacheMeta records the cache flag and returns the response metadata.
func withCacheMeta(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	return middleware.ExtractMeta(c)
}
