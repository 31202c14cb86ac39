package user

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleProjectManager
	RoleDeveloper
)

// Roles lists every assignable role from most to least privileged.
var Roles = []Role{RoleAdmin, RoleProjectManager, RoleDeveloper}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleProjectManager:
		return "PROJECT MANAGER"
	case RoleDeveloper:
		return "DEVELOPER"
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleDeveloper:
		return true
	default:
		return false
	}
}

// ParseRole accepts the stored form ("PROJECT MANAGER") as well as the
// underscore form ("project_manager"), case-insensitively.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	switch s {
	case "ADMIN":
		return RoleAdmin, nil
	case "PROJECT MANAGER":
		return RoleProjectManager, nil
	case "DEVELOPER":
		return RoleDeveloper, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
