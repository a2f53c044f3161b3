package model

// StandingsCell is a contestant's aggregate for one problem
type StandingsCell struct {
	ProblemID      ProblemID `json:"problem_id"`
	Attempts       int       `json:"attempts"`
	Solved         bool      `json:"solved"`
	PenaltyMinutes int       `json:"penalty_minutes"`
	// Unlisted marks a problem that is not part of the contest's problem list
	Unlisted bool `json:"unlisted,omitempty"`
}

// StandingsRow is a contestant's position on the scoreboard
type StandingsRow struct {
	Rank         int             `json:"rank"`
	ContestantID UserID          `json:"contestant_id"`
	SolvedCount  int             `json:"solved_count"`
	TotalPenalty int             `json:"total_penalty"`
	Cells        []StandingsCell `json:"cells"`
}
