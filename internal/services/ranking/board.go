package ranking

import (
	"sort"
	"time"

	"github.com/mcoot/judgecore/internal/model"
)

// WrongAttemptPenalty is the penalty in minutes for each rejected attempt before a solve
const WrongAttemptPenalty = 20

type cell struct {
	attempts        int
	solved          bool
	solvedAtMinutes int
}

// penalty is recomputed from attempts on every read
func (c *cell) penalty() int {
	if !c.solved {
		return 0
	}
	return c.solvedAtMinutes + WrongAttemptPenalty*(c.attempts-1)
}

type row struct {
	contestant model.UserID
	cells      map[model.ProblemID]*cell
	// unlisted holds problems outside the contest list, in first-seen order
	unlisted []model.ProblemID
}

// Board folds one contest's verdict events into standings. It is not safe for
// concurrent use; callers serialize events per contest.
type Board struct {
	begin    time.Time
	problems []model.ProblemID
	listed   map[model.ProblemID]struct{}
	rows     map[model.UserID]*row
	// seen holds the records already folded in
	seen map[model.RecordID]struct{}
	// last and lastID identify the latest event folded in, in storage order
	last    time.Time
	lastID  model.RecordID
	applied int
}

// NewBoard creates an empty board for contest
func NewBoard(contest *model.Contest) *Board {
	listed := make(map[model.ProblemID]struct{}, len(contest.Problems))
	for _, p := range contest.Problems {
		listed[p] = struct{}{}
	}
	return &Board{
		begin:    contest.BeginTime,
		problems: append([]model.ProblemID(nil), contest.Problems...),
		listed:   listed,
		rows:     make(map[model.UserID]*row),
		seen:     make(map[model.RecordID]struct{}),
	}
}

// ApplyEvent folds a single verdict into the board and reports whether it
// changed any cell. Non-final verdicts, attempts on solved cells and records
// already folded in are ignored. Events are assumed to arrive in submission order.
func (b *Board) ApplyEvent(event model.VerdictEvent) bool {
	if !event.Verdict.IsFinal() || b.Contains(event.RecordID) {
		return false
	}
	if event.RecordID != "" {
		b.seen[event.RecordID] = struct{}{}
	}
	if !b.Behind(event) {
		b.last, b.lastID = event.SubmittedAt, event.RecordID
	}

	r, ok := b.rows[event.ContestantID]
	if !ok {
		r = &row{contestant: event.ContestantID, cells: make(map[model.ProblemID]*cell)}
		b.rows[event.ContestantID] = r
	}

	c, ok := r.cells[event.ProblemID]
	if !ok {
		c = &cell{}
		r.cells[event.ProblemID] = c
		if _, isListed := b.listed[event.ProblemID]; !isListed {
			r.unlisted = append(r.unlisted, event.ProblemID)
		}
	}
	if c.solved {
		return false
	}

	c.attempts++
	if event.Verdict == model.VerdictAccepted {
		c.solved = true
		c.solvedAtMinutes = b.minutesSinceBegin(event.SubmittedAt)
	}
	b.applied++
	return true
}

// minutesSinceBegin floors to whole minutes; submissions before the start count as minute 0
func (b *Board) minutesSinceBegin(at time.Time) int {
	elapsed := at.Sub(b.begin)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}

// Contains reports whether the record's verdict is already on the board.
// Events without a record id are never matched.
func (b *Board) Contains(id model.RecordID) bool {
	if id == "" {
		return false
	}
	_, ok := b.seen[id]
	return ok
}

// Behind reports whether event sorts before the latest event already folded
// in. Ties on submission time are ordered by record id, as storage lists them.
func (b *Board) Behind(event model.VerdictEvent) bool {
	if event.SubmittedAt.Equal(b.last) {
		return event.RecordID < b.lastID
	}
	return event.SubmittedAt.Before(b.last)
}

// LastSubmittedAt returns the latest submission time applied so far
func (b *Board) LastSubmittedAt() time.Time {
	return b.last
}

// Applied returns how many events changed the board
func (b *Board) Applied() int {
	return b.applied
}

// Snapshot derives the ranked standings from the current rows
func (b *Board) Snapshot() []model.StandingsRow {
	rows := make([]model.StandingsRow, 0, len(b.rows))
	for _, r := range b.rows {
		rows = append(rows, b.render(r))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SolvedCount != rows[j].SolvedCount {
			return rows[i].SolvedCount > rows[j].SolvedCount
		}
		if rows[i].TotalPenalty != rows[j].TotalPenalty {
			return rows[i].TotalPenalty < rows[j].TotalPenalty
		}
		return rows[i].ContestantID < rows[j].ContestantID
	})

	// Competition ranking: a tie group shares the position of its first row
	for i := range rows {
		if i > 0 && rows[i].SolvedCount == rows[i-1].SolvedCount && rows[i].TotalPenalty == rows[i-1].TotalPenalty {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
	return rows
}

func (b *Board) render(r *row) model.StandingsRow {
	out := model.StandingsRow{
		ContestantID: r.contestant,
		Cells:        make([]model.StandingsCell, 0, len(b.problems)+len(r.unlisted)),
	}

	add := func(id model.ProblemID, unlisted bool) {
		sc := model.StandingsCell{ProblemID: id, Unlisted: unlisted}
		if c, ok := r.cells[id]; ok {
			sc.Attempts = c.attempts
			sc.Solved = c.solved
			sc.PenaltyMinutes = c.penalty()
			if c.solved {
				out.SolvedCount++
				out.TotalPenalty += sc.PenaltyMinutes
			}
		}
		out.Cells = append(out.Cells, sc)
	}

	for _, id := range b.problems {
		add(id, false)
	}
	for _, id := range r.unlisted {
		add(id, true)
	}
	return out
}
