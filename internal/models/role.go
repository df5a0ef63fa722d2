package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role determines which operations a session may invoke.
type Role string

const (
	RoleOwner Role = "owner"
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

// ErrUnknownRole is returned when a role string is not one of the known roles.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a raw form/claim value into a Role. Surrounding
// whitespace is ignored, otherwise matching is case-sensitive: "Owner" is not "owner".
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleOwner, RoleBuyer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// CanSelfRegister reports whether accounts with this role may be created via signup.
func (r Role) CanSelfRegister() bool {
	return r == RoleOwner || r == RoleBuyer
}
