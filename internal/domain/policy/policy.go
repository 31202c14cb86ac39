// Package policy holds the authorization predicates evaluated against the
// actor of a request. Every function is total: a missing permission is
// reported as false or an empty role list, never as an error.
package policy

import "acms/internal/domain/user"

// Rule decides whether an actor may proceed.
type Rule func(actor user.Actor) bool

func IsAuthenticated(actor user.Actor) bool {
	return actor.Authenticated
}

func IsNotAuthenticated(actor user.Actor) bool {
	return !actor.Authenticated
}

func IsAdmin(actor user.Actor) bool {
	return actor.Authenticated && actor.Role == user.RoleAdmin
}

func IsProjectManager(actor user.Actor) bool {
	return actor.Authenticated && actor.Role == user.RoleProjectManager
}

func IsDeveloper(actor user.Actor) bool {
	return actor.Authenticated && actor.Role == user.RoleDeveloper
}

// VisibleRolesFor returns the roles whose users the actor may list.
func VisibleRolesFor(actor user.Actor) []user.Role {
	if !actor.Authenticated {
		return []user.Role{}
	}
	switch actor.Role {
	case user.RoleAdmin:
		return []user.Role{user.RoleAdmin, user.RoleProjectManager, user.RoleDeveloper}
	case user.RoleProjectManager:
		return []user.Role{user.RoleProjectManager, user.RoleDeveloper}
	case user.RoleDeveloper:
		return []user.Role{}
	default:
		return []user.Role{}
	}
}

// All is true when every rule holds. All() is true.
func All(rules ...Rule) Rule {
	return func(actor user.Actor) bool {
		for _, r := range rules {
			if r == nil || !r(actor) {
				return false
			}
		}
		return true
	}
}

// Any is true when at least one rule holds. Any() is false.
func Any(rules ...Rule) Rule {
	return func(actor user.Actor) bool {
		for _, r := range rules {
			if r != nil && r(actor) {
				return true
			}
		}
		return false
	}
}

func Not(rule Rule) Rule {
	return func(actor user.Actor) bool {
		if rule == nil {
			return true
		}
		return !rule(actor)
	}
}

// Rules shared by several route groups.
var (
	ManagesProjects = Any(IsAdmin, IsProjectManager)
	ViewsProjects   = Any(IsDeveloper, IsAdmin, IsProjectManager)
	CreatesSkills   = Any(IsAdmin, IsDeveloper, IsProjectManager)
)
