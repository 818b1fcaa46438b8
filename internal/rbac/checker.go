// Package rbac gates the scoring API by role. Roles arrive on the JWT (or
// the users table) and map onto permission grants; handlers and route
// middleware ask the checker, never the role name directly.
package rbac

import (
	"context"
	"strings"
)

// Checker answers whether a role holds a permission under a grant table.
type Checker struct {
	grants map[string][]string
}

// NewChecker builds a checker over the given grant table. A nil table means
// the built-in RolePermissions policy.
func NewChecker(grants map[string][]string) *Checker {
	if grants == nil {
		grants = RolePermissions
	}
	return &Checker{grants: grants}
}

// Has reports whether role holds perm. A grant of "*" allows everything and
// a trailing "*" matches by prefix, so "admin:*" covers "admin:grades".
func (c *Checker) Has(role, perm string) bool {
	for _, g := range c.grants[role] {
		if grantCovers(g, perm) {
			return true
		}
	}
	return false
}

// Any reports whether role holds at least one of perms.
func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func grantCovers(grant, perm string) bool {
	if grant == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(grant, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

type roleKey struct{}

// WithRole stores the caller's role for the duration of the request.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the stored role, or "" for an unauthenticated
// request.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
