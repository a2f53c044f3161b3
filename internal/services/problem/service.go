package problem

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// CreateInput holds the fields for a new problem
type CreateInput struct {
	Title       string `validate:"required,max=128"`
	Private     bool
	AllowSubmit bool
}

// Service manages problems
type Service struct {
	storage  storage.Storage
	resolver *scope.Resolver
	clock    clock.Clock
	ids      idgen.Generator
	logger   *slog.Logger
}

// New creates a new problem Service
func New(storage storage.Storage, resolver *scope.Resolver, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
		ids:      ids,
		logger:   logger.With(slog.String("component", "problem")),
	}
}

// Create adds a problem to a team
func (s *Service) Create(ctx context.Context, req model.Requester, teamID model.TeamID, in CreateInput) (*model.Problem, error) {
	if err := s.resolver.Assert(ctx, scope.For(req).Team(teamID), model.CapCreateProblem); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	problem := &model.Problem{
		ID:          model.ProblemID(s.ids.NewID()),
		TeamID:      teamID,
		Title:       in.Title,
		Private:     in.Private,
		AllowSubmit: in.AllowSubmit,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveProblem(ctx, problem); err != nil {
		return nil, err
	}

	s.logger.Info("problem created",
		slog.String("problem_id", string(problem.ID)),
		slog.String("team_id", string(teamID)))
	return problem, nil
}

// Get returns a problem. With a contest ID the problem is viewed through that
// contest, so its participants may see it; it must be one of the contest's problems.
func (s *Service) Get(ctx context.Context, req model.Requester, id model.ProblemID, contestID model.ContestID) (*model.Problem, error) {
	problem, sc, err := s.Scope(ctx, req, id, contestID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertAny(ctx, sc, model.CapViewProblem, model.CapViewProblemPublic); err != nil {
		return nil, err
	}
	return problem, nil
}

// Scope loads a problem and builds the scope its capabilities are checked against
func (s *Service) Scope(ctx context.Context, req model.Requester, id model.ProblemID, contestID model.ContestID) (*model.Problem, scope.Scope, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, scope.Scope{}, err
	}
	problem, err := s.storage.GetProblem(ctx, id)
	if err != nil {
		return nil, scope.Scope{}, err
	}

	sc := scope.For(req).Team(problem.TeamID).Resource(scope.ResourceProblem, string(id))
	if contestID == "" {
		return problem, sc, nil
	}

	if err := validation.ID(string(contestID)); err != nil {
		return nil, scope.Scope{}, err
	}
	contest, err := s.storage.GetContest(ctx, contestID)
	if err != nil {
		return nil, scope.Scope{}, err
	}
	if !slices.Contains(contest.Problems, id) {
		return nil, scope.Scope{}, model.ErrProblemNotFound
	}
	return problem, sc.Contest(contestID), nil
}
