// Package policy decides whether a principal may perform an action on a
// project-scoped target. Decisions are pure functions of the inputs: no I/O,
// no caching. Callers load the Context snapshot inside the same transaction
// as the mutation so the decision is never made against stale state.
package policy

import "devsprint/backend/internal/models"

// Action identifies a command on the command surface.
type Action string

const (
	ActionCreateProject Action = "create_project"
	ActionUpdateProject Action = "update_project"
	ActionDeleteProject Action = "delete_project"
	ActionAddMember     Action = "add_member"
	ActionRemoveMember  Action = "remove_member"
	ActionCreateTask    Action = "create_task"
	ActionUpdateTask    Action = "update_task"
	ActionDeleteTask    Action = "delete_task"
	ActionListProjects  Action = "list_projects"
	ActionListTasks     Action = "list_tasks"
)

// Principal is the authenticated actor issuing a command.
type Principal struct {
	ID   uint
	Role string // models.RoleLead or models.RoleDev
}

// Context is the minimal target snapshot a rule may consult: the project's
// owner and its explicit (invited) member ids. The owner is an implicit
// member and must not appear in MemberIDs.
type Context struct {
	OwnerID   uint
	MemberIDs map[uint]bool
}

// IsMember reports whether userID is in the project's member set,
// counting the owner as an implicit member.
func (c Context) IsMember(userID uint) bool {
	return userID == c.OwnerID || c.MemberIDs[userID]
}

// Decision is the outcome of a rule evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// rule maps a principal and target snapshot to a decision.
type rule func(p Principal, c Context) Decision

// rules is the full permission matrix, kept as data so the matrix stays
// auditable and tests can enumerate every (role, ownership, action) cell.
var rules = map[Action]rule{
	ActionCreateProject: requireLead,
	ActionUpdateProject: requireOwner,
	ActionDeleteProject: requireOwner,
	ActionAddMember:     requireOwner,
	ActionRemoveMember:  requireOwner,
	ActionCreateTask:    requireMember,
	ActionUpdateTask:    requireMember,
	ActionDeleteTask:    requireLeadMember,
	ActionListProjects: func(Principal, Context) Decision {
		// Always allowed; the coordinator filters results to the
		// caller's membership.
		return allow
	},
	ActionListTasks: requireMember,
}

func requireLead(p Principal, _ Context) Decision {
	if p.Role != models.RoleLead {
		return deny("requires lead role")
	}
	return allow
}

func requireOwner(p Principal, c Context) Decision {
	if p.ID != c.OwnerID {
		return deny("requires project owner")
	}
	return allow
}

func requireMember(p Principal, c Context) Decision {
	if !c.IsMember(p.ID) {
		return deny("requires project membership")
	}
	return allow
}

func requireLeadMember(p Principal, c Context) Decision {
	if d := requireLead(p, c); !d.Allowed {
		return d
	}
	return requireMember(p, c)
}

// Authorize evaluates the rule for action against the principal and target
// snapshot. Unknown actions are denied.
func Authorize(p Principal, action Action, c Context) Decision {
	r, ok := rules[action]
	if !ok {
		return deny("unknown action")
	}
	return r(p, c)
}
