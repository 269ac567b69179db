package domain

import "strings"

// Role names a user's role. Rights per role live in the authz policy.
type Role string

const (
	RoleUser  Role = "user"
	RoleChef  Role = "chef"
	RoleAdmin Role = "admin"
)

// Roles lists every role a user may hold.
var Roles = []Role{RoleUser, RoleChef, RoleAdmin}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Rights checked by the HTTP layer.
const (
	RightGetMeals    = "getMeals"
	RightManageMeals = "manageMeals"
	RightGetMenu     = "getMenu"
	RightManageMenu  = "manageMenu"
	RightGetOrder    = "getOrder"
	RightManageOrder = "manageOrder"
	RightGetUsers    = "getUsers"
	RightManageUsers = "manageUsers"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
