package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

type mockTenantUsers struct {
	users map[string]*models.User
	calls int
	err   error
}

func (m *mockTenantUsers) FindWithMemberships(_ context.Context, userID string) (*models.User, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("get user: %w", sql.ErrNoRows)
	}
	return user, nil
}

type mockOrgs struct {
	orgs  []models.Organization
	calls int
}

func (m *mockOrgs) FindByIDOrCode(_ context.Context, key string) (*models.Organization, error) {
	m.calls++
	for i := range m.orgs {
		if m.orgs[i].ID == key || m.orgs[i].Code == key {
			return &m.orgs[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func tenantFixture() (*mockTenantUsers, *mockOrgs) {
	users := &mockTenantUsers{users: map[string]*models.User{
		"root":  {ID: "root", Role: models.RoleSystemAdmin, Active: true},
		"admin": {ID: "admin", Role: models.RoleStaff, Active: true, Memberships: []models.Membership{
			{OrgID: "org-old", Role: models.RoleOrgAdmin, Active: false},
			{OrgID: "org-1", Role: models.RoleOrgAdmin, Active: true},
			{OrgID: "org-2", Role: "", Active: true},
		}},
		"ghost":  {ID: "ghost", Role: models.RoleStaff, Active: false},
		"loner":  {ID: "loner", Role: models.RoleStaff, Active: true},
		"closed": {ID: "closed", Role: models.RoleStaff, Active: true, Memberships: []models.Membership{{OrgID: "org-off", Role: models.RoleOrgAdmin, Active: true}}},
	}}
	orgs := &mockOrgs{orgs: []models.Organization{
		{ID: "org-1", Code: "acme", Name: "Acme", Active: true},
		{ID: "org-2", Code: "beta", Name: "Beta", Active: true},
		{ID: "org-3", Code: "gamma", Name: "Gamma", Active: true},
		{ID: "org-off", Code: "off", Name: "Off", Active: false},
	}}
	return users, orgs
}

func TestTenantServiceSystemAdmin(t *testing.T) {
	users, orgs := tenantFixture()
	svc := NewTenantService(users, orgs, nil, zap.NewNop())
	ctx := context.Background()

	tenant, err := svc.Resolve(ctx, "root", OrgSelection{})
	require.NoError(t, err)
	assert.Empty(t, tenant.OrgID)
	assert.Equal(t, models.RoleSystemAdmin, tenant.Role)

	tenant, err = svc.Resolve(ctx, "root", OrgSelection{TenantID: "gamma"})
	require.NoError(t, err)
	assert.Equal(t, "org-3", tenant.OrgID)
	assert.Equal(t, "Gamma", tenant.OrgName)

	_, err = svc.Resolve(ctx, "root", OrgSelection{OrgID: "bad key!"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Resolve(ctx, "root", OrgSelection{OrganizationID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Resolve(ctx, "root", OrgSelection{OrgID: "off"})
	assert.ErrorIs(t, err, appErrors.ErrTenantInactive)
}

func TestTenantServiceMemberDefaultsToFirstActiveMembership(t *testing.T) {
	users, orgs := tenantFixture()
	svc := NewTenantService(users, orgs, nil, zap.NewNop())

	tenant, err := svc.Resolve(context.Background(), "admin", OrgSelection{})
	require.NoError(t, err)
	assert.Equal(t, "org-1", tenant.OrgID)
	assert.Equal(t, models.RoleOrgAdmin, tenant.Role, "membership role overrides base role")
}

func TestTenantServiceMemberHeaderSelection(t *testing.T) {
	users, orgs := tenantFixture()
	svc := NewTenantService(users, orgs, nil, zap.NewNop())
	ctx := context.Background()

	tenant, err := svc.Resolve(ctx, "admin", OrgSelection{OrgID: "beta"})
	require.NoError(t, err)
	assert.Equal(t, "org-2", tenant.OrgID)
	assert.Equal(t, models.RoleStaff, tenant.Role, "empty membership role keeps base role")

	_, err = svc.Resolve(ctx, "admin", OrgSelection{OrgID: "gamma"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Resolve(ctx, "admin", OrgSelection{OrgID: "nowhere"})
	assert.ErrorIs(t, err, appErrors.ErrTenantRequired)

	tenant, err = svc.Resolve(ctx, "admin", OrgSelection{TenantID: "gamma"})
	require.NoError(t, err)
	assert.Equal(t, "org-1", tenant.OrgID, "only X-Org-Id is honoured for members")
}

func TestTenantServiceRejections(t *testing.T) {
	users, orgs := tenantFixture()
	svc := NewTenantService(users, orgs, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "", OrgSelection{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Resolve(ctx, "ghost", OrgSelection{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Resolve(ctx, "nobody", OrgSelection{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Resolve(ctx, "loner", OrgSelection{})
	assert.ErrorIs(t, err, appErrors.ErrTenantRequired)

	_, err = svc.Resolve(ctx, "closed", OrgSelection{})
	assert.ErrorIs(t, err, appErrors.ErrTenantInactive)
}

func TestTenantServiceStoreErrorPassthrough(t *testing.T) {
	users, orgs := tenantFixture()
	users.err = assert.AnError
	svc := NewTenantService(users, orgs, nil, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "admin", OrgSelection{})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTenantServiceMemoizesLookups(t *testing.T) {
	users, orgs := tenantFixture()
	svc := NewTenantService(users, orgs, NewMemoryTenantCache(time.Minute), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(ctx, "admin", OrgSelection{OrgID: "acme"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, users.calls)
	assert.Equal(t, 1, orgs.calls)

	uncached := NewTenantService(users, orgs, NoopTenantCache{}, zap.NewNop())
	for i := 0; i < 2; i++ {
		_, err := uncached.Resolve(ctx, "admin", OrgSelection{OrgID: "acme"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, users.calls)
}
