package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSystemAdmin UserRole = "SYSTEM_ADMIN"
	RoleOrgAdmin    UserRole = "ORG_ADMIN"
	RoleStaff       UserRole = "STAFF"
)

// User represents an application user stored in the users table.
type User struct {
	ID          string       `db:"id" json:"id"`
	Email       string       `db:"email" json:"email"`
	Role        UserRole     `db:"role" json:"role"`
	Active      bool         `db:"active" json:"active"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	Memberships []Membership `db:"-" json:"memberships"`
}

// ActiveMembership returns the user's active membership for orgID, if any.
func (u *User) ActiveMembership(orgID string) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.Active && m.OrgID == orgID {
			return m, true
		}
	}
	return Membership{}, false
}

// FirstActiveMembership returns the first active membership in stored order.
func (u *User) FirstActiveMembership() (Membership, bool) {
	for _, m := range u.Memberships {
		if m.Active {
			return m, true
		}
	}
	return Membership{}, false
}
