package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/policy"
	"github.com/mcoot/judgecore/internal/services/ranking"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// WarningRunning is returned by Update when a running contest is edited
const WarningRunning = "contest is running; changes apply to an ongoing contest"

// CreateInput holds the fields for a new contest
type CreateInput struct {
	Title       string `validate:"required,max=128"`
	Description string `validate:"max=8192"`
	Private     bool
	BeginTime   time.Time `validate:"required"`
	EndTime     time.Time `validate:"required,gtfield=BeginTime"`
	Problems    []model.ProblemID
}

// UpdateInput holds editable fields; nil fields are left unchanged
type UpdateInput struct {
	Title       *string `validate:"omitnil,min=1,max=128"`
	Description *string `validate:"omitnil,max=8192"`
	Private     *bool
	BeginTime   *time.Time
	EndTime     *time.Time
	Problems    []model.ProblemID
}

// Service manages contests, participation and standings
type Service struct {
	storage  storage.Storage
	resolver *scope.Resolver
	ranking  *ranking.Service
	clock    clock.Clock
	ids      idgen.Generator
	logger   *slog.Logger
}

// New creates a new contest Service
func New(
	storage storage.Storage,
	resolver *scope.Resolver,
	ranking *ranking.Service,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		resolver: resolver,
		ranking:  ranking,
		clock:    clock,
		ids:      ids,
		logger:   logger.With(slog.String("component", "contest")),
	}
}

// Create adds a contest to a team. The creator moderates it.
func (s *Service) Create(ctx context.Context, req model.Requester, teamID model.TeamID, in CreateInput) (*model.Contest, error) {
	if err := s.resolver.Assert(ctx, scope.For(req).Team(teamID), model.CapCreateContest); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkProblems(ctx, teamID, in.Problems); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	contest := &model.Contest{
		ID:          model.ContestID(s.ids.NewID()),
		TeamID:      teamID,
		Title:       in.Title,
		Description: in.Description,
		Private:     in.Private,
		BeginTime:   in.BeginTime,
		EndTime:     in.EndTime,
		Problems:    in.Problems,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.SaveContest(ctx, contest); err != nil {
		return nil, err
	}
	if err := s.storage.SetParticipant(ctx, contest.ID, req.UserID, model.ContestRoleMod); err != nil {
		return nil, err
	}

	s.logger.Info("contest created",
		slog.String("contest_id", string(contest.ID)),
		slog.String("team_id", string(teamID)),
		slog.Time("begin_time", contest.BeginTime))
	return contest, nil
}

// checkProblems requires every problem to exist, belong to the team and appear once
func (s *Service) checkProblems(ctx context.Context, teamID model.TeamID, ids []model.ProblemID) error {
	seen := make(map[model.ProblemID]struct{}, len(ids))
	for _, id := range ids {
		if err := validation.ID(string(id)); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: problem %s listed twice", model.ErrValidationFailed, id)
		}
		seen[id] = struct{}{}

		problem, err := s.storage.GetProblem(ctx, id)
		if err != nil {
			return err
		}
		if problem.TeamID != teamID {
			return fmt.Errorf("%w: problem %s belongs to another team", model.ErrValidationFailed, id)
		}
	}
	return nil
}

// load fetches a contest and its scope for the requester
func (s *Service) load(ctx context.Context, req model.Requester, id model.ContestID) (*model.Contest, scope.Scope, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, scope.Scope{}, err
	}
	contest, err := s.storage.GetContest(ctx, id)
	if err != nil {
		return nil, scope.Scope{}, err
	}
	return contest, scope.For(req).Team(contest.TeamID).Contest(id), nil
}

// Get returns a contest visible to the requester. Visibility does not depend on the phase.
func (s *Service) Get(ctx context.Context, req model.Requester, id model.ContestID) (*model.Contest, error) {
	contest, sc, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertAny(ctx, sc, model.CapViewContest, model.CapViewContestPublic); err != nil {
		return nil, err
	}
	return contest, nil
}

// Update edits a contest. Editing a running contest is allowed but returns a warning.
func (s *Service) Update(ctx context.Context, req model.Requester, id model.ContestID, in UpdateInput) (*model.Contest, string, error) {
	contest, sc, err := s.load(ctx, req, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.resolver.Assert(ctx, sc, model.CapEditContest); err != nil {
		return nil, "", err
	}
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}

	var warning string
	if contest.PhaseAt(s.clock.Now()) == model.PhaseRunning {
		warning = WarningRunning
		s.logger.Warn("editing a running contest",
			slog.String("contest_id", string(id)),
			slog.String("by", string(req.UserID)))
	}

	if in.Title != nil {
		contest.Title = *in.Title
	}
	if in.Description != nil {
		contest.Description = *in.Description
	}
	if in.Private != nil {
		contest.Private = *in.Private
	}
	if in.BeginTime != nil {
		contest.BeginTime = *in.BeginTime
	}
	if in.EndTime != nil {
		contest.EndTime = *in.EndTime
	}
	if !contest.EndTime.After(contest.BeginTime) {
		return nil, "", fmt.Errorf("%w: end time must be after begin time", model.ErrValidationFailed)
	}
	if in.Problems != nil {
		if err := s.checkProblems(ctx, contest.TeamID, in.Problems); err != nil {
			return nil, "", err
		}
		contest.Problems = in.Problems
	}
	contest.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveContest(ctx, contest); err != nil {
		return nil, "", err
	}
	// Problem list and begin time feed the scoreboard
	s.ranking.Invalidate(id)

	return contest, warning, nil
}

// Register enrols the requester as a contestant
func (s *Service) Register(ctx context.Context, req model.Requester, id model.ContestID) error {
	_, sc, err := s.load(ctx, req, id)
	if err != nil {
		return err
	}
	if err := s.resolver.AssertAny(ctx, sc, model.CapRegisterContest, model.CapRegisterContestPublic); err != nil {
		return err
	}

	role, err := s.storage.GetParticipantRole(ctx, id, req.UserID)
	if err != nil {
		return err
	}
	if role != model.ContestRoleNone {
		return model.ErrAlreadyRegistered
	}

	if err := s.storage.SetParticipant(ctx, id, req.UserID, model.ContestRoleContestant); err != nil {
		return err
	}
	s.logger.Info("contestant registered",
		slog.String("contest_id", string(id)),
		slog.String("user_id", string(req.UserID)))
	return nil
}

// SetParticipant assigns (or with ContestRoleNone removes) a user's contest role
func (s *Service) SetParticipant(ctx context.Context, req model.Requester, id model.ContestID, userID model.UserID, role model.ContestRole) error {
	_, sc, err := s.load(ctx, req, id)
	if err != nil {
		return err
	}
	if err := validation.ID(string(userID)); err != nil {
		return err
	}
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.resolver.Assert(ctx, sc, model.CapEditContest); err != nil {
		return err
	}
	return s.storage.SetParticipant(ctx, id, userID, role)
}

// Participants lists a contest's participation rows
func (s *Service) Participants(ctx context.Context, req model.Requester, id model.ContestID) ([]model.Participant, error) {
	if _, err := s.Get(ctx, req, id); err != nil {
		return nil, err
	}
	return s.storage.ListParticipants(ctx, id)
}

// Permissions evaluates capabilities against the contest scope, e.g. to decide
// which actions a client should offer. All capabilities are resolved together.
func (s *Service) Permissions(ctx context.Context, req model.Requester, id model.ContestID, capabilities []model.Capability) (map[model.Capability]bool, error) {
	if len(capabilities) == 0 {
		capabilities = policy.Capabilities()
	}
	for _, c := range capabilities {
		if !policy.IsKnown(c) {
			return nil, fmt.Errorf("%w: unknown capability %q", model.ErrValidationFailed, c)
		}
	}

	_, sc, err := s.load(ctx, req, id)
	if err != nil {
		return nil, err
	}
	granted, err := s.resolver.CheckAll(ctx, sc, capabilities...)
	if err != nil {
		return nil, err
	}

	out := make(map[model.Capability]bool, len(capabilities))
	for i, c := range capabilities {
		out[c] = granted[i]
	}
	return out, nil
}

// Standings returns the ranked scoreboard of a contest visible to the requester
func (s *Service) Standings(ctx context.Context, req model.Requester, id model.ContestID) ([]model.StandingsRow, error) {
	if _, err := s.Get(ctx, req, id); err != nil {
		return nil, err
	}
	rows, err := s.ranking.Standings(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrContestNotFound) {
			return nil, err
		}
		s.logger.Error("failed to build standings",
			slog.String("contest_id", string(id)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return rows, nil
}
