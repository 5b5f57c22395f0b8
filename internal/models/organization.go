package models

import "time"

// Organization is the tenant boundary; every survey and response belongs to exactly one.
type Organization struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Membership links a user to an organization with an org-scoped role.
type Membership struct {
	UserID string   `db:"user_id" json:"userId"`
	OrgID  string   `db:"org_id" json:"orgId"`
	Role   UserRole `db:"role" json:"role"`
	Active bool     `db:"active" json:"active"`
}

// TenantContext is the resolved organization scope for an authenticated request.
type TenantContext struct {
	OrgID   string   `json:"orgId"`
	OrgCode string   `json:"orgCode"`
	OrgName string   `json:"orgName"`
	Role    UserRole `json:"role"`
}
