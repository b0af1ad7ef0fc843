// Package policy is the pure authorization decision layer: functions from
// (actor, action, target) to allow/deny with no I/O and no side effects.
// Every mutation handler consults it before touching storage.
package policy

import (
	"github.com/nkchq/projectboard/internal/constants"
	"github.com/nkchq/projectboard/internal/models"
)

// Tier orders the three actor classes. The super-admin is a capability value
// of its own rather than a username comparison scattered through call sites;
// TierFor is the only place the reserved handle is consulted.
type Tier int

const (
	TierUser Tier = iota
	TierAdmin
	TierSuperAdmin
)

func (t Tier) String() string {
	switch t {
	case TierSuperAdmin:
		return "super-admin"
	case TierAdmin:
		return "admin"
	default:
		return "user"
	}
}

// TierFor maps a login handle and role to a tier.
func TierFor(username string, role models.Role) Tier {
	if username == constants.SuperAdminUsername {
		return TierSuperAdmin
	}
	if role == models.RoleAdmin {
		return TierAdmin
	}
	return TierUser
}

// Actor is the acting identity as the policy sees it.
type Actor struct {
	UserID   uint64
	Username string
	Tier     Tier
}

// IsSuperAdmin reports whether the actor holds the top tier.
func (a Actor) IsSuperAdmin() bool {
	return a.Tier == TierSuperAdmin
}

// DeleteMode distinguishes erasure from soft deletion.
type DeleteMode int

const (
	DeleteModeSoft DeleteMode = iota
	DeleteModeHard
)

// CanManageProjects reports whether the actor may create, update, or delete
// projects.
func CanManageProjects(a Actor) bool {
	return a.Tier == TierSuperAdmin
}

// CanManageUsers reports whether the actor may create or update user
// accounts.
func CanManageUsers(a Actor) bool {
	return a.Tier == TierSuperAdmin
}

// CanDeleteUser reports whether the actor may delete the given user.
// Self-deletion of the super-admin is always denied.
func CanDeleteUser(a Actor, targetID uint64) bool {
	return a.Tier == TierSuperAdmin && a.UserID != targetID
}

// CanAssignMembers reports whether the actor may change project membership.
func CanAssignMembers(a Actor) bool {
	return a.Tier == TierSuperAdmin
}

// CanViewProject reports project visibility. Admin tiers see every project;
// a plain user needs an explicit membership row.
func CanViewProject(a Actor, isMember bool) bool {
	if a.Tier >= TierAdmin {
		return true
	}
	return isMember
}

// CanMutateTask reports whether the actor may create, edit, or move a task
// in a project they can view. A soft-deleted task is inert for everyone but
// the super-admin.
func CanMutateTask(a Actor, isMember, taskSoftDeleted bool) bool {
	if !CanViewProject(a, isMember) {
		return false
	}
	if taskSoftDeleted {
		return a.Tier == TierSuperAdmin
	}
	return true
}

// DeleteModeFor returns how a task deletion by this tier takes effect:
// erasure for the super-admin, a retained-but-inert row for everyone else.
func DeleteModeFor(t Tier) DeleteMode {
	if t == TierSuperAdmin {
		return DeleteModeHard
	}
	return DeleteModeSoft
}
