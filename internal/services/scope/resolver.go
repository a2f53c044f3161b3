package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/policy"
	"github.com/mcoot/judgecore/internal/validation"
)

// Resolver turns a Scope into a policy.Context and answers capability checks.
// Nothing is cached: every call re-reads roles, timing and privacy.
type Resolver struct {
	lookups Lookups
	clock   clock.Clock
}

// NewResolver creates a new Resolver
func NewResolver(lookups Lookups, clk clock.Clock) *Resolver {
	return &Resolver{
		lookups: lookups,
		clock:   clk,
	}
}

// Resolve performs the lookups for a scope. Unknown teams, contests and resources
// fail with a not-found error before any authorization decision is made.
func (r *Resolver) Resolve(ctx context.Context, s Scope) (policy.Context, error) {
	pc := policy.Context{
		Requester: s.requester,
		Subject:   s.subject,
	}

	if s.teamID != "" {
		if err := validation.ID(string(s.teamID)); err != nil {
			return policy.Context{}, fmt.Errorf("team id: %w", err)
		}
		role, err := r.lookups.TeamRole(ctx, s.teamID, s.requester.UserID)
		if err != nil {
			return policy.Context{}, err
		}
		pc.TeamRole = role
	}

	if s.contestID != "" {
		if err := validation.ID(string(s.contestID)); err != nil {
			return policy.Context{}, fmt.Errorf("contest id: %w", err)
		}
		begin, end, err := r.lookups.ContestTiming(ctx, s.contestID)
		if err != nil {
			return policy.Context{}, err
		}
		role, err := r.lookups.ContestRole(ctx, s.contestID, s.requester.UserID)
		if err != nil {
			return policy.Context{}, err
		}
		pc.ContestRole = role
		pc.Phase = model.PhaseAt(begin, end, r.clock.Now())
	}

	if res, ok := s.privacyResource(); ok {
		if err := validation.ID(res.ID); err != nil {
			return policy.Context{}, fmt.Errorf("%s id: %w", res.Kind, err)
		}
		private, err := r.lookups.Privacy(ctx, res)
		if err != nil {
			return policy.Context{}, err
		}
		pc.Private = private
	}

	return pc, nil
}

// Check reports whether the scope grants a capability
func (r *Resolver) Check(ctx context.Context, s Scope, capability model.Capability) (bool, error) {
	pc, err := r.Resolve(ctx, s)
	if err != nil {
		return false, err
	}
	return policy.Evaluate(pc, capability), nil
}

// CheckAll evaluates several capabilities against one resolution of the scope
func (r *Resolver) CheckAll(ctx context.Context, s Scope, capabilities ...model.Capability) ([]bool, error) {
	pc, err := r.Resolve(ctx, s)
	if err != nil {
		return nil, err
	}
	return policy.EvaluateAll(pc, capabilities), nil
}

// Assert fails with ErrUnauthenticated (anonymous) or ErrForbidden when the capability is denied
func (r *Resolver) Assert(ctx context.Context, s Scope, capability model.Capability) error {
	ok, err := r.Check(ctx, s, capability)
	if err != nil {
		return err
	}
	if !ok {
		return denied(s.requester, string(capability))
	}
	return nil
}

// AssertAny succeeds when at least one of the capabilities is granted, e.g. a
// private capability and its public variant
func (r *Resolver) AssertAny(ctx context.Context, s Scope, capabilities ...model.Capability) error {
	granted, err := r.CheckAll(ctx, s, capabilities...)
	if err != nil {
		return err
	}
	for _, ok := range granted {
		if ok {
			return nil
		}
	}
	names := make([]string, len(capabilities))
	for i, c := range capabilities {
		names[i] = string(c)
	}
	return denied(s.requester, strings.Join(names, "|"))
}

// AssertPrivilege fails when the requester lacks a privilege. It needs no lookups.
func (r *Resolver) AssertPrivilege(s Scope, p model.Privilege) error {
	if !policy.HasPrivilege(policy.Context{Requester: s.requester}, p) {
		return denied(s.requester, string(p))
	}
	return nil
}

func denied(req model.Requester, what string) error {
	if req.IsAnonymous() {
		return fmt.Errorf("%w: %s", model.ErrUnauthenticated, what)
	}
	return fmt.Errorf("%w: %s", model.ErrForbidden, what)
}
