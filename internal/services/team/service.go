package team

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// CreateInput holds the fields for a new team
type CreateInput struct {
	Name    string `validate:"required,max=64"`
	Private bool
}

// Service manages teams and their membership
type Service struct {
	storage  storage.Storage
	resolver *scope.Resolver
	clock    clock.Clock
	ids      idgen.Generator
	logger   *slog.Logger
}

// New creates a new team Service
func New(storage storage.Storage, resolver *scope.Resolver, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
		ids:      ids,
		logger:   logger.With(slog.String("component", "team")),
	}
}

// Create makes a team owned by the requester
func (s *Service) Create(ctx context.Context, req model.Requester, in CreateInput) (*model.Team, error) {
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapCreateTeam); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:        model.TeamID(s.ids.NewID()),
		Name:      in.Name,
		Private:   in.Private,
		CreatedBy: req.UserID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveTeam(ctx, team); err != nil {
		return nil, err
	}
	if err := s.storage.SetTeamMember(ctx, team.ID, req.UserID, model.TeamRoleOwner); err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		slog.String("team_id", string(team.ID)),
		slog.String("owner", string(req.UserID)))
	return team, nil
}

// Get returns a team visible to the requester
func (s *Service) Get(ctx context.Context, req model.Requester, id model.TeamID) (*model.Team, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, err
	}
	team, err := s.storage.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertAny(ctx, scope.For(req).Team(id), model.CapViewTeam, model.CapViewTeamPublic); err != nil {
		return nil, err
	}
	return team, nil
}

// Members lists a team's membership
func (s *Service) Members(ctx context.Context, req model.Requester, id model.TeamID) ([]model.TeamMember, error) {
	if _, err := s.Get(ctx, req, id); err != nil {
		return nil, err
	}
	return s.storage.ListTeamMembers(ctx, id)
}

// SetMember adds, changes or (with TeamRoleNone) removes a membership.
// Ownership changes need an owner or a privileged system role.
func (s *Service) SetMember(ctx context.Context, req model.Requester, teamID model.TeamID, userID model.UserID, role model.TeamRole) error {
	if err := validation.ID(string(userID)); err != nil {
		return err
	}
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.resolver.Assert(ctx, scope.For(req).Team(teamID), model.CapEditTeam); err != nil {
		return err
	}

	current, err := s.storage.GetTeamMemberRole(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == model.TeamRoleOwner || current == model.TeamRoleOwner {
		own, err := s.storage.GetTeamMemberRole(ctx, teamID, req.UserID)
		if err != nil {
			return err
		}
		if own != model.TeamRoleOwner && !req.Role.IsPrivileged() {
			return fmt.Errorf("%w: only an owner may change ownership", model.ErrForbidden)
		}
	}

	if err := s.storage.SetTeamMember(ctx, teamID, userID, role); err != nil {
		return err
	}
	s.logger.Info("team membership changed",
		slog.String("team_id", string(teamID)),
		slog.String("user_id", string(userID)),
		slog.String("from", current.String()),
		slog.String("to", role.String()))
	return nil
}
