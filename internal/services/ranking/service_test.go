package ranking

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage/memory"
	"github.com/mcoot/judgecore/internal/testutil"
)

type published struct {
	contestID model.ContestID
	rows      []model.StandingsRow
}

type recordingPublisher struct {
	mu    sync.Mutex
	calls []published
}

func (p *recordingPublisher) StandingsUpdate(contestID model.ContestID, rows []model.StandingsRow) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, published{contestID, rows})
}

func (p *recordingPublisher) last() published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Storage
	publisher *recordingPublisher
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.publisher = &recordingPublisher{}
	s.service = New(s.store, s.publisher, Config{Workers: 2}, testutil.NopLogger())

	for _, id := range []model.ContestID{"c1", "c2", "c3"} {
		s.Require().NoError(s.store.SaveContest(s.ctx, &model.Contest{
			ID:        id,
			TeamID:    "t1",
			BeginTime: begin,
			EndTime:   at(300),
			Problems:  []model.ProblemID{"p1", "p2"},
		}))
	}
}

func (s *ServiceSuite) saveRecord(id model.RecordID, contest model.ContestID, user model.UserID, problem model.ProblemID, verdict model.Verdict, minutes int) *model.Record {
	record := &model.Record{
		ID:          id,
		ContestID:   contest,
		SubmitterID: user,
		ProblemID:   problem,
		Verdict:     verdict,
		SubmittedAt: at(minutes),
	}
	s.Require().NoError(s.store.SaveRecord(s.ctx, record))
	return record
}

func (s *ServiceSuite) TestStandingsRebuildFromStore() {
	s.saveRecord("r1", "c1", "alice", "p1", model.VerdictWrongAnswer, 0)
	s.saveRecord("r2", "c1", "alice", "p1", model.VerdictAccepted, 5)
	s.saveRecord("r3", "c1", "bob", "p2", model.VerdictPending, 6)

	rows, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(25, rows[0].TotalPenalty)
	s.Equal(0, s.publisher.count())
}

func (s *ServiceSuite) TestApplyOnUnloadedBoardDoesNotDoubleCount() {
	record := s.saveRecord("r1", "c1", "alice", "p1", model.VerdictWrongAnswer, 2)

	s.Require().NoError(s.service.Apply(s.ctx, "c1", record.VerdictEvent()))

	rows, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(1, rows[0].Cells[0].Attempts)
	s.Equal(1, s.publisher.count())
}

func (s *ServiceSuite) TestApplyPublishesStandings() {
	_, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)

	record := s.saveRecord("r1", "c1", "alice", "p2", model.VerdictAccepted, 12)
	s.Require().NoError(s.service.Apply(s.ctx, "c1", record.VerdictEvent()))

	last := s.publisher.last()
	s.Equal(model.ContestID("c1"), last.contestID)
	s.Require().Len(last.rows, 1)
	s.Equal(12, last.rows[0].TotalPenalty)

	// A repeat on a solved cell changes nothing and is not published
	record = s.saveRecord("r2", "c1", "alice", "p2", model.VerdictAccepted, 14)
	s.Require().NoError(s.service.Apply(s.ctx, "c1", record.VerdictEvent()))
	s.Equal(1, s.publisher.count())
}

func (s *ServiceSuite) TestOutOfOrderVerdictRebuildsBoard() {
	_, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)

	early := s.saveRecord("r1", "c1", "alice", "p1", model.VerdictPending, 10)
	late := s.saveRecord("r2", "c1", "alice", "p1", model.VerdictAccepted, 30)
	s.Require().NoError(s.service.Apply(s.ctx, "c1", late.VerdictEvent()))

	// The earlier submission finishes judging after the later one
	early.Verdict = model.VerdictAccepted
	s.Require().NoError(s.store.SaveRecord(s.ctx, early))
	s.Require().NoError(s.service.Apply(s.ctx, "c1", early.VerdictEvent()))

	live, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(live, 1)
	s.Equal(1, live[0].Cells[0].Attempts)
	s.Equal(10, live[0].TotalPenalty)
	s.Equal(live, s.publisher.last().rows)

	s.service.Invalidate("c1")
	rebuilt, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(rebuilt, live)
}

func (s *ServiceSuite) TestApplyAfterRebuildSkipsStoredRecords() {
	first := s.saveRecord("r1", "c1", "alice", "p1", model.VerdictWrongAnswer, 1)
	second := s.saveRecord("r2", "c1", "alice", "p1", model.VerdictWrongAnswer, 2)

	// r2 loads the board from storage, which already holds r1
	s.Require().NoError(s.service.Apply(s.ctx, "c1", second.VerdictEvent()))
	s.Require().NoError(s.service.Apply(s.ctx, "c1", first.VerdictEvent()))
	s.Require().NoError(s.service.Apply(s.ctx, "c1", second.VerdictEvent()))

	rows, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].Cells[0].Attempts)
	s.Equal(1, s.publisher.count())
}

// Judging finishes in an arbitrary order; the live board must always match a
// board replayed from storage
func (s *ServiceSuite) TestShuffledVerdictsMatchRebuild() {
	verdicts := []model.Verdict{
		model.VerdictAccepted,
		model.VerdictWrongAnswer,
		model.VerdictTimeLimitExceeded,
		model.VerdictCompileError,
		model.VerdictPending,
	}
	users := []model.UserID{"u1", "u2", "u3", "u4"}
	problems := []model.ProblemID{"p1", "p2", "p3"}

	for seed := int64(1); seed <= 8; seed++ {
		rng := rand.New(rand.NewSource(seed))
		store := memory.New()
		publisher := &recordingPublisher{}
		service := New(store, publisher, Config{Workers: 2}, testutil.NopLogger())
		s.Require().NoError(store.SaveContest(s.ctx, &model.Contest{
			ID:        "c1",
			BeginTime: begin,
			EndTime:   at(300),
			Problems:  []model.ProblemID{"p1", "p2"},
		}))

		records := make([]*model.Record, 40)
		for i := range records {
			records[i] = &model.Record{
				ID:          model.RecordID(fmt.Sprintf("r%d", i)),
				ContestID:   "c1",
				SubmitterID: users[rng.Intn(len(users))],
				ProblemID:   problems[rng.Intn(len(problems))],
				Verdict:     model.VerdictPending,
				SubmittedAt: at(rng.Intn(120)),
			}
			s.Require().NoError(store.SaveRecord(s.ctx, records[i]))
		}
		if seed%2 == 0 {
			_, err := service.Standings(s.ctx, "c1")
			s.Require().NoError(err)
		}

		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
		for _, record := range records {
			record.Verdict = verdicts[rng.Intn(len(verdicts))]
			s.Require().NoError(store.SaveRecord(s.ctx, record))
			if record.Verdict.IsFinal() {
				s.Require().NoError(service.Apply(s.ctx, "c1", record.VerdictEvent()))
			}
		}

		live, err := service.Standings(s.ctx, "c1")
		s.Require().NoError(err)
		service.Invalidate("c1")
		rebuilt, err := service.Standings(s.ctx, "c1")
		s.Require().NoError(err)
		s.Equal(rebuilt, live, "seed %d", seed)
		if publisher.count() > 0 {
			s.Equal(live, publisher.last().rows, "seed %d", seed)
		}
	}
}

func (s *ServiceSuite) TestUnknownContest() {
	_, err := s.service.Standings(s.ctx, "missing")
	s.ErrorIs(err, model.ErrContestNotFound)
}

func (s *ServiceSuite) TestInvalidateReloadsContest() {
	s.saveRecord("r1", "c1", "alice", "p1", model.VerdictAccepted, 5)
	_, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)

	contest, err := s.store.GetContest(s.ctx, "c1")
	s.Require().NoError(err)
	contest.BeginTime = at(-10)
	s.Require().NoError(s.store.SaveContest(s.ctx, contest))
	s.service.Invalidate("c1")

	rows, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(15, rows[0].TotalPenalty)
}

func (s *ServiceSuite) TestInvalidateDuringApply() {
	_, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			record := &model.Record{
				ID:          model.RecordID(fmt.Sprintf("r%d", i)),
				ContestID:   "c1",
				SubmitterID: model.UserID(fmt.Sprintf("u%d", i%4)),
				ProblemID:   "p1",
				Verdict:     model.VerdictWrongAnswer,
				SubmittedAt: at(i),
			}
			_ = s.store.SaveRecord(s.ctx, record)
			_ = s.service.Apply(s.ctx, "c1", record.VerdictEvent())
		}()
		go func() {
			defer wg.Done()
			s.service.Invalidate("c1")
		}()
	}
	wg.Wait()

	rows, err := s.service.Standings(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(rows, 4)
	for _, r := range rows {
		s.Equal(5, r.Cells[0].Attempts)
	}
	// Publishes are serialized with Invalidate, so the last one matches storage
	s.Equal(rows, s.publisher.last().rows)
}

func (s *ServiceSuite) TestWarmLoadsContestsInParallel() {
	s.saveRecord("r1", "c1", "alice", "p1", model.VerdictAccepted, 5)
	s.saveRecord("r2", "c2", "bob", "p2", model.VerdictAccepted, 7)

	s.Require().NoError(s.service.Warm(s.ctx, []model.ContestID{"c1", "c2", "c3"}))

	rows, err := s.service.Standings(s.ctx, "c2")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(model.UserID("bob"), rows[0].ContestantID)

	rows, err = s.service.Standings(s.ctx, "c3")
	s.Require().NoError(err)
	s.Empty(rows)

	s.ErrorIs(s.service.Warm(s.ctx, []model.ContestID{"c1", "missing"}), model.ErrContestNotFound)
}

func (s *ServiceSuite) TestConcurrentApplyAcrossContests() {
	for _, id := range []model.ContestID{"c1", "c2"} {
		_, err := s.service.Standings(s.ctx, id)
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	for _, id := range []model.ContestID{"c1", "c2"} {
		for _, user := range []model.UserID{"u1", "u2", "u3"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for minute, verdict := range []model.Verdict{model.VerdictWrongAnswer, model.VerdictAccepted} {
					record := &model.Record{
						ID:          model.RecordID(fmt.Sprintf("%s-%s-%d", id, user, minute)),
						ContestID:   id,
						SubmitterID: user,
						ProblemID:   "p1",
						Verdict:     verdict,
						SubmittedAt: at(minute + 1),
					}
					_ = s.store.SaveRecord(s.ctx, record)
					_ = s.service.Apply(s.ctx, id, record.VerdictEvent())
				}
			}()
		}
	}
	wg.Wait()

	for _, id := range []model.ContestID{"c1", "c2"} {
		rows, err := s.service.Standings(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Len(rows, 3)
		for _, r := range rows {
			s.Equal(1, r.Rank)
			s.Equal(22, r.TotalPenalty)
		}
	}
}
