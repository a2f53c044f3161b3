package ranking

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
)

// Publisher receives a contest's standings after every change
type Publisher interface {
	StandingsUpdate(contestID model.ContestID, rows []model.StandingsRow)
}

// Config holds configuration for the ranking service
type Config struct {
	// Workers bounds parallel rebuilds in Warm
	Workers int
}

// DefaultConfig returns default ranking configuration
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// entry guards one contest's board; events for a contest are applied one at a time
type entry struct {
	mu    sync.Mutex
	board *Board
}

// Service keeps one live board per contest
type Service struct {
	storage   storage.Storage
	publisher Publisher
	logger    *slog.Logger
	workers   int

	mu     sync.Mutex
	boards map[model.ContestID]*entry
}

// New creates a new ranking Service. publisher may be nil.
func New(storage storage.Storage, publisher Publisher, cfg Config, logger *slog.Logger) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Service{
		storage:   storage,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "ranking")),
		workers:   cfg.Workers,
		boards:    make(map[model.ContestID]*entry),
	}
}

func (s *Service) entry(contestID model.ContestID) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.boards[contestID]
	if !ok {
		e = &entry{}
		s.boards[contestID] = e
	}
	return e
}

// Apply folds a final verdict into the contest's board and publishes the new
// standings. The record must already be persisted: a board that is not yet
// loaded, or one that has already folded in a later submission, is rebuilt
// from storage instead.
func (s *Service) Apply(ctx context.Context, contestID model.ContestID, event model.VerdictEvent) error {
	e := s.entry(contestID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.board == nil {
		if err := s.rebuildLocked(ctx, contestID, e); err != nil {
			return err
		}
		s.publish(contestID, e.board)
		return nil
	}

	if e.board.Contains(event.RecordID) {
		return nil
	}

	if e.board.Behind(event) {
		s.logger.Info("verdict event out of submission order, rebuilding standings",
			slog.String("contest_id", string(contestID)),
			slog.String("record_id", string(event.RecordID)),
			slog.Time("submitted_at", event.SubmittedAt),
			slog.Time("last_applied", e.board.LastSubmittedAt()))
		if err := s.rebuildLocked(ctx, contestID, e); err != nil {
			return err
		}
		s.publish(contestID, e.board)
		return nil
	}

	if !e.board.ApplyEvent(event) {
		return nil
	}
	s.publish(contestID, e.board)
	return nil
}

// Standings returns the ranked rows for a contest, loading its board on first use
func (s *Service) Standings(ctx context.Context, contestID model.ContestID) ([]model.StandingsRow, error) {
	e := s.entry(contestID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.board == nil {
		if err := s.rebuildLocked(ctx, contestID, e); err != nil {
			return nil, err
		}
	}
	return e.board.Snapshot(), nil
}

// Invalidate drops a contest's board so the next use rebuilds it, e.g. after
// the problem list or begin time changed
func (s *Service) Invalidate(contestID model.ContestID) {
	s.mu.Lock()
	e, ok := s.boards[contestID]
	s.mu.Unlock()
	if !ok {
		return
	}

	// Waits for an in-flight Apply so its publish cannot follow the rebuilt one
	e.mu.Lock()
	e.board = nil
	e.mu.Unlock()
}

// Warm rebuilds several contests' boards in parallel
func (s *Service) Warm(ctx context.Context, contestIDs []model.ContestID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, id := range contestIDs {
		g.Go(func() error {
			e := s.entry(id)
			e.mu.Lock()
			defer e.mu.Unlock()
			return s.rebuildLocked(ctx, id, e)
		})
	}
	return g.Wait()
}

// rebuildLocked replays the contest's stored records into a fresh board
func (s *Service) rebuildLocked(ctx context.Context, contestID model.ContestID, e *entry) error {
	contest, err := s.storage.GetContest(ctx, contestID)
	if err != nil {
		return err
	}
	records, err := s.storage.ListContestRecords(ctx, contestID)
	if err != nil {
		s.logger.Error("failed to load contest records",
			slog.String("contest_id", string(contestID)),
			slog.String("error", err.Error()))
		return err
	}

	board := NewBoard(contest)
	for _, record := range records {
		board.ApplyEvent(record.VerdictEvent())
	}
	e.board = board

	s.logger.Debug("standings rebuilt",
		slog.String("contest_id", string(contestID)),
		slog.Int("records", len(records)),
		slog.Int("applied", board.Applied()))
	return nil
}

func (s *Service) publish(contestID model.ContestID, board *Board) {
	if s.publisher == nil {
		return
	}
	s.publisher.StandingsUpdate(contestID, board.Snapshot())
}
