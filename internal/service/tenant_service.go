package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

var orgKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,64}$`)

// TenantUserRepository loads users with their organization memberships.
type TenantUserRepository interface {
	FindWithMemberships(ctx context.Context, userID string) (*models.User, error)
}

// OrganizationRepository resolves organizations by id or code.
type OrganizationRepository interface {
	FindByIDOrCode(ctx context.Context, key string) (*models.Organization, error)
}

// OrgSelection carries the organization headers of a request, already trimmed.
type OrgSelection struct {
	OrgID          string
	OrganizationID string
	TenantID       string
}

// TenantService turns an authenticated user into a TenantContext.
type TenantService struct {
	users  TenantUserRepository
	orgs   OrganizationRepository
	cache  TenantCache
	logger *zap.Logger
}

// NewTenantService constructs a tenant service. A nil cache disables memoization.
func NewTenantService(users TenantUserRepository, orgs OrganizationRepository, cache TenantCache, logger *zap.Logger) *TenantService {
	if cache == nil {
		cache = NoopTenantCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{users: users, orgs: orgs, cache: cache, logger: logger}
}

// Resolve picks the organization for userID. System admins may address any
// organization through the headers and get an empty OrgID when they send none.
// Everyone else uses X-Org-Id or their first active membership and must be an
// active member of the resolved organization.
func (s *TenantService) Resolve(ctx context.Context, userID string, sel OrgSelection) (*models.TenantContext, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user not found or inactive")
	}

	if user.Role == models.RoleSystemAdmin {
		key := firstNonEmpty(sel.OrgID, sel.OrganizationID, sel.TenantID)
		if key == "" {
			return &models.TenantContext{Role: user.Role}, nil
		}
		if !orgKeyPattern.MatchString(key) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid X-Org-Id")
		}
		org, err := s.org(ctx, key)
		if err != nil {
			return nil, err
		}
		if org == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "organization not found")
		}
		if !org.Active {
			return nil, appErrors.ErrTenantInactive
		}
		return tenantFor(org, user.Role), nil
	}

	var org *models.Organization
	if sel.OrgID != "" {
		if !orgKeyPattern.MatchString(sel.OrgID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid X-Org-Id")
		}
		if org, err = s.org(ctx, sel.OrgID); err != nil {
			return nil, err
		}
	} else if m, ok := user.FirstActiveMembership(); ok {
		if org, err = s.org(ctx, m.OrgID); err != nil {
			return nil, err
		}
	}

	if org == nil {
		return nil, appErrors.Clone(appErrors.ErrTenantRequired, "tenant required, select an organization")
	}
	if !org.Active {
		return nil, appErrors.ErrTenantInactive
	}
	membership, ok := user.ActiveMembership(org.ID)
	if !ok {
		s.logger.Debug("tenant membership missing", zap.String("user_id", user.ID), zap.String("org_id", org.ID))
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this organization")
	}

	role := user.Role
	if membership.Role != "" {
		role = membership.Role
	}
	return tenantFor(org, role), nil
}

func (s *TenantService) user(ctx context.Context, userID string) (*models.User, error) {
	key := "u:" + userID
	if cached, ok := s.cache.Get(key); ok {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}
	user, err := s.users.FindWithMemberships(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve tenant user: %w", err)
	}
	if user != nil {
		s.cache.Set(key, user)
	}
	return user, nil
}

func (s *TenantService) org(ctx context.Context, key string) (*models.Organization, error) {
	cacheKey := "o:" + key
	if cached, ok := s.cache.Get(cacheKey); ok {
		if org, ok := cached.(*models.Organization); ok {
			return org, nil
		}
	}
	org, err := s.orgs.FindByIDOrCode(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve tenant organization: %w", err)
	}
	if org != nil {
		s.cache.Set(cacheKey, org)
	}
	return org, nil
}

func tenantFor(org *models.Organization, role models.UserRole) *models.TenantContext {
	return &models.TenantContext{OrgID: org.ID, OrgCode: org.Code, OrgName: org.Name, Role: role}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
