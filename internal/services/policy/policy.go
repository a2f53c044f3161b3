package policy

import (
	"slices"
	"sort"

	"github.com/mcoot/judgecore/internal/model"
)

// Context is the fully resolved input to a capability check
type Context struct {
	Requester   model.Requester
	TeamRole    model.TeamRole
	ContestRole model.ContestRole
	Phase       model.Phase
	// Private is the privacy flag of the resource being accessed
	Private bool
	// Subject is the user a self-variant capability refers to
	Subject model.UserID
}

// Evaluate reports whether the context grants the capability. Unknown capabilities are denied.
func Evaluate(c Context, capability model.Capability) bool {
	r, ok := rules[capability]
	if !ok {
		return false
	}

	// Privilege gate first
	if r.privilege != "" && !HasPrivilege(c, r.privilege) {
		return false
	}

	if hasSystemOverride(c.Requester) {
		return true
	}

	if len(r.phases) > 0 && !slices.Contains(r.phases, c.Phase) {
		return false
	}

	switch r.kind {
	case kindSystem:
		return false
	case kindAuthenticated:
		return !c.Requester.IsAnonymous()
	case kindSelf:
		return !c.Requester.IsAnonymous() && c.Subject == c.Requester.UserID
	case kindPublic:
		if !c.Private {
			return true
		}
		return grantedByScope(c, r)
	case kindPrivate:
		return grantedByScope(c, r)
	}
	return false
}

// EvaluateAll evaluates several capabilities against the same context
func EvaluateAll(c Context, capabilities []model.Capability) []bool {
	results := make([]bool, len(capabilities))
	for i, capability := range capabilities {
		results[i] = Evaluate(c, capability)
	}
	return results
}

// HasPrivilege reports whether the requester holds the privilege
func HasPrivilege(c Context, p model.Privilege) bool {
	switch p {
	case model.PrivOperate:
		if c.Requester.IsAnonymous() {
			return false
		}
		switch c.Requester.Role {
		case model.SystemRoleSu, model.SystemRoleAdmin, model.SystemRoleUser:
			return true
		case model.SystemRoleBanned:
			return false
		}
	}
	return false
}

// RequiredPrivilege returns the privilege a capability is gated on, if any
func RequiredPrivilege(capability model.Capability) (model.Privilege, bool) {
	r, ok := rules[capability]
	if !ok || r.privilege == "" {
		return "", false
	}
	return r.privilege, true
}

// IsKnown reports whether the capability has a rule
func IsKnown(capability model.Capability) bool {
	_, ok := rules[capability]
	return ok
}

// Capabilities returns every known capability in name order
func Capabilities() []model.Capability {
	caps := make([]model.Capability, 0, len(rules))
	for c := range rules {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

func hasSystemOverride(r model.Requester) bool {
	return !r.IsAnonymous() && r.Role.IsPrivileged()
}

// grantedByScope ORs the team axis and the contest axis
func grantedByScope(c Context, r rule) bool {
	return teamGrants(r, c.TeamRole) || contestGrants(r, c.ContestRole)
}

func teamGrants(r rule, role model.TeamRole) bool {
	switch role {
	case model.TeamRoleNone:
		return false
	case model.TeamRoleOwner, model.TeamRoleAdmin, model.TeamRoleMember:
		return slices.Contains(r.teamRoles, role)
	}
	return false
}

func contestGrants(r rule, role model.ContestRole) bool {
	switch role {
	case model.ContestRoleNone:
		return false
	case model.ContestRoleMod, model.ContestRoleJury, model.ContestRoleContestant:
		return slices.Contains(r.contestRoles, role)
	}
	return false
}
