package judge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/problem"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// Publisher delivers record updates to subscribers
type Publisher interface {
	RecordUpdate(record *model.Record, payload model.RecordUpdatePayload)
}

// Ranker consumes final contest verdicts
type Ranker interface {
	Apply(ctx context.Context, contestID model.ContestID, event model.VerdictEvent) error
}

// SubmitInput holds a new submission
type SubmitInput struct {
	ContestID model.ContestID
	Language  string `validate:"required,max=32"`
	Code      string `validate:"required,max=65536"`
}

// VerdictInput is a judging result reported for a record
type VerdictInput struct {
	Verdict  model.Verdict `validate:"required"`
	Score    int           `validate:"min=0,max=100"`
	TimeMs   int           `validate:"min=0"`
	MemoryKB int           `validate:"min=0"`
	Message  string        `validate:"max=4096"`
}

// Service accepts submissions and records their verdicts
type Service struct {
	storage   storage.Storage
	resolver  *scope.Resolver
	problems  *problem.Service
	publisher Publisher
	ranker    Ranker
	clock     clock.Clock
	ids       idgen.Generator
	logger    *slog.Logger
}

// New creates a new judge Service
func New(
	storage storage.Storage,
	resolver *scope.Resolver,
	problems *problem.Service,
	publisher Publisher,
	ranker Ranker,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		resolver:  resolver,
		problems:  problems,
		publisher: publisher,
		ranker:    ranker,
		clock:     clock,
		ids:       ids,
		logger:    logger.With(slog.String("component", "judge")),
	}
}

// Submit records a Pending submission. Contest submissions are only accepted
// from participants while the contest is running; practice submissions need
// the problem to allow them.
func (s *Service) Submit(ctx context.Context, req model.Requester, problemID model.ProblemID, in SubmitInput) (*model.Record, error) {
	if err := s.resolver.AssertPrivilege(scope.For(req), model.PrivOperate); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	prob, sc, err := s.problems.Scope(ctx, req, problemID, in.ContestID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertAny(ctx, sc, model.CapViewProblem, model.CapViewProblemPublic); err != nil {
		return nil, err
	}

	if in.ContestID != "" {
		if err := s.resolver.Assert(ctx, sc, model.CapSubmitContest); err != nil {
			return nil, err
		}
	} else if !prob.AllowSubmit {
		return nil, model.ErrSubmissionClosed
	}

	record := &model.Record{
		ID:          model.RecordID(s.ids.NewID()),
		SubmitterID: req.UserID,
		ProblemID:   prob.ID,
		TeamID:      prob.TeamID,
		ContestID:   in.ContestID,
		Language:    in.Language,
		Code:        in.Code,
		Verdict:     model.VerdictPending,
		SubmittedAt: s.clock.Now(),
	}
	if err := s.storage.SaveRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("submission received",
		slog.String("record_id", string(record.ID)),
		slog.String("problem_id", string(prob.ID)),
		slog.String("contest_id", string(in.ContestID)),
		slog.String("submitter", string(req.UserID)))
	s.publisher.RecordUpdate(record, s.payload(record))
	return record, nil
}

// Get returns a record to its submitter or to staff of its team or contest
func (s *Service) Get(ctx context.Context, req model.Requester, id model.RecordID) (*model.Record, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, err
	}
	record, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertAny(ctx, RecordScope(req, record), model.CapViewRecordSelf, model.CapViewRecord); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordScope is the scope record visibility is checked against
func RecordScope(req model.Requester, record *model.Record) scope.Scope {
	sc := scope.For(req).Team(record.TeamID).Subject(record.SubmitterID)
	if record.ContestID != "" {
		sc = sc.Contest(record.ContestID)
	}
	return sc
}

// UpdateVerdict stores a judging result, notifies subscribers and, for final
// contest verdicts, updates the scoreboard
func (s *Service) UpdateVerdict(ctx context.Context, req model.Requester, id model.RecordID, in VerdictInput) (*model.Record, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, err
	}
	record, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapJudgeRecord); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.Verdict.IsValid() {
		return nil, fmt.Errorf("%w: unknown verdict %q", model.ErrValidationFailed, in.Verdict)
	}
	if record.Verdict.IsFinal() {
		return nil, fmt.Errorf("%w: record already judged as %s", model.ErrValidationFailed, record.Verdict)
	}

	record.Verdict = in.Verdict
	record.Score = in.Score
	record.TimeMs = in.TimeMs
	record.MemoryKB = in.MemoryKB
	record.Message = in.Message
	if err := s.storage.SaveRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("verdict recorded",
		slog.String("record_id", string(record.ID)),
		slog.String("verdict", string(record.Verdict)))
	s.publisher.RecordUpdate(record, s.payload(record))

	if record.ContestID != "" && record.Verdict.IsFinal() {
		// The verdict is already stored; a failed refresh is rebuilt on next read
		if err := s.ranker.Apply(ctx, record.ContestID, record.VerdictEvent()); err != nil {
			s.logger.Error("failed to update standings",
				slog.String("contest_id", string(record.ContestID)),
				slog.String("record_id", string(record.ID)),
				slog.String("error", err.Error()))
		}
	}
	return record, nil
}

func (s *Service) payload(record *model.Record) model.RecordUpdatePayload {
	return model.RecordUpdatePayload{
		RecordID:  record.ID,
		ProblemID: record.ProblemID,
		ContestID: record.ContestID,
		Submitter: record.SubmitterID,
		Verdict:   record.Verdict,
		Score:     record.Score,
		TimeMs:    record.TimeMs,
		MemoryKB:  record.MemoryKB,
		UpdatedAt: s.clock.Now(),
	}
}
