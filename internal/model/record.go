package model

import "time"

// RecordID uniquely identifies a submission record
type RecordID string

// Verdict is the judging outcome of a record
type Verdict string

const (
	VerdictPending             Verdict = "Pending"
	VerdictJudging             Verdict = "Judging"
	VerdictAccepted            Verdict = "Accepted"
	VerdictWrongAnswer         Verdict = "Wrong Answer"
	VerdictTimeLimitExceeded   Verdict = "Time Limit Exceeded"
	VerdictMemoryLimitExceeded Verdict = "Memory Limit Exceeded"
	VerdictRuntimeError        Verdict = "Runtime Error"
	VerdictCompileError        Verdict = "Compile Error"
	VerdictSystemError         Verdict = "System Error"
)

// IsFinal reports whether judging has finished with this verdict
func (v Verdict) IsFinal() bool {
	switch v {
	case VerdictPending, VerdictJudging:
		return false
	case VerdictAccepted, VerdictWrongAnswer, VerdictTimeLimitExceeded,
		VerdictMemoryLimitExceeded, VerdictRuntimeError, VerdictCompileError, VerdictSystemError:
		return true
	}
	return false
}

// IsValid reports whether v is a known verdict
func (v Verdict) IsValid() bool {
	return v == VerdictPending || v == VerdictJudging || v.IsFinal()
}

// Record is a single submission and its judging state
type Record struct {
	ID          RecordID  `json:"id"`
	SubmitterID UserID    `json:"submitter_id"`
	ProblemID   ProblemID `json:"problem_id"`
	TeamID      TeamID    `json:"team_id,omitempty"`
	ContestID   ContestID `json:"contest_id,omitempty"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Verdict     Verdict   `json:"verdict"`
	Score       int       `json:"score"`
	TimeMs      int       `json:"time_ms"`
	MemoryKB    int       `json:"memory_kb"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// VerdictEvent is the input to contest ranking
type VerdictEvent struct {
	RecordID     RecordID
	ContestantID UserID
	ProblemID    ProblemID
	Verdict      Verdict
	SubmittedAt  time.Time
}

// VerdictEvent converts a contest record into a ranking event
func (r *Record) VerdictEvent() VerdictEvent {
	return VerdictEvent{
		RecordID:     r.ID,
		ContestantID: r.SubmitterID,
		ProblemID:    r.ProblemID,
		Verdict:      r.Verdict,
		SubmittedAt:  r.SubmittedAt,
	}
}
