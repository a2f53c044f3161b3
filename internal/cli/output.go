package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Team:
		o.printTeam(v)
	case Problem:
		o.printProblem(v)
	case Contest:
		o.printContest(v)
	case ContestUpdate:
		o.printContest(v.Contest)
		if v.Warning != "" {
			fmt.Fprintf(o.w, "Warning: %s\n", v.Warning)
		}
	case Permissions:
		o.printPermissions(v)
	case Standings:
		o.printStandings(v)
	case Record:
		o.printRecord(v)
	case Room:
		fmt.Fprintf(o.w, "Room: %s (%s)\n", v.Name, v.ID)
		fmt.Fprintf(o.w, "Private: %s\n", yesNo(v.Private))
	case []ChatMessage:
		for _, m := range v {
			fmt.Fprintf(o.w, "[%s] %s: %s\n", m.SentAt.Format(time.DateTime), m.SenderID, m.Content)
		}
	case []PrivateMessage:
		for _, m := range v {
			fmt.Fprintf(o.w, "[%s] %s -> %s: %s\n", m.SentAt.Format(time.DateTime), m.FromID, m.ToID, m.Content)
		}
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

// AuthResult combines user and token
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Team response type
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Private   bool   `json:"private"`
	CreatedBy string `json:"created_by"`
}

// Problem response type
type Problem struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	Title       string `json:"title"`
	Private     bool   `json:"private"`
	AllowSubmit bool   `json:"allow_submit"`
}

// Contest response type
type Contest struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	BeginTime   time.Time `json:"begin_time"`
	EndTime     time.Time `json:"end_time"`
	Problems    []string  `json:"problems"`
	Phase       string    `json:"phase"`
}

// ContestUpdate is returned when a contest is edited
type ContestUpdate struct {
	Contest Contest `json:"contest"`
	Warning string  `json:"warning,omitempty"`
}

// Permissions maps capability names to decisions
type Permissions struct {
	ContestID   string          `json:"contest_id"`
	Permissions map[string]bool `json:"permissions"`
}

// Standings response type
type Standings struct {
	ContestID string         `json:"contest_id"`
	Rows      []StandingsRow `json:"rows"`
}

// StandingsRow is one contestant's scoreboard line
type StandingsRow struct {
	Rank         int             `json:"rank"`
	ContestantID string          `json:"contestant_id"`
	SolvedCount  int             `json:"solved_count"`
	TotalPenalty int             `json:"total_penalty"`
	Cells        []StandingsCell `json:"cells"`
}

// StandingsCell is one contestant's result on one problem
type StandingsCell struct {
	ProblemID      string `json:"problem_id"`
	Attempts       int    `json:"attempts"`
	Solved         bool   `json:"solved"`
	PenaltyMinutes int    `json:"penalty_minutes"`
	Unlisted       bool   `json:"unlisted,omitempty"`
}

// Record response type
type Record struct {
	ID          string    `json:"id"`
	SubmitterID string    `json:"submitter_id"`
	ProblemID   string    `json:"problem_id"`
	ContestID   string    `json:"contest_id,omitempty"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Verdict     string    `json:"verdict"`
	Score       int       `json:"score"`
	TimeMs      int       `json:"time_ms"`
	MemoryKB    int       `json:"memory_kb"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Room response type
type Room struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

// ChatMessage is a message posted to a room
type ChatMessage struct {
	ID       string    `json:"id"`
	RoomID   string    `json:"room_id"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// PrivateMessage is a direct message between two users
type PrivateMessage struct {
	ID      string    `json:"id"`
	FromID  string    `json:"from_id"`
	ToID    string    `json:"to_id"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// HealthResult response type
type HealthResult struct {
	Status      string `json:"status"`
	Storage     string `json:"storage"`
	Connections int    `json:"connections"`
	Topics      int    `json:"topics"`
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (o *Output) printUser(u User) {
	name := u.Nickname
	if name == "" {
		name = u.Username
	}
	fmt.Fprintf(o.w, "User: %s (%s)\n", name, u.ID)
	fmt.Fprintf(o.w, "Username: %s\n", u.Username)
	fmt.Fprintf(o.w, "Role: %s\n", u.Role)
	if u.Bio != "" {
		fmt.Fprintf(o.w, "Bio: %s\n", u.Bio)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Fprintf(o.w, "Token expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printTeam(t Team) {
	fmt.Fprintf(o.w, "Team: %s (%s)\n", t.Name, t.ID)
	fmt.Fprintf(o.w, "Private: %s\n", yesNo(t.Private))
	fmt.Fprintf(o.w, "Created by: %s\n", t.CreatedBy)
}

func (o *Output) printProblem(p Problem) {
	fmt.Fprintf(o.w, "Problem: %s (%s)\n", p.Title, p.ID)
	fmt.Fprintf(o.w, "Team: %s\n", p.TeamID)
	fmt.Fprintf(o.w, "Private: %s\n", yesNo(p.Private))
	fmt.Fprintf(o.w, "Practice submissions: %s\n", yesNo(p.AllowSubmit))
}

func (o *Output) printContest(c Contest) {
	fmt.Fprintf(o.w, "Contest: %s (%s)\n", c.Title, c.ID)
	fmt.Fprintf(o.w, "Phase: %s\n", c.Phase)
	fmt.Fprintf(o.w, "Begins: %s\n", c.BeginTime.Format(time.RFC3339))
	fmt.Fprintf(o.w, "Ends: %s\n", c.EndTime.Format(time.RFC3339))
	fmt.Fprintf(o.w, "Private: %s\n", yesNo(c.Private))
	if len(c.Problems) > 0 {
		fmt.Fprintf(o.w, "Problems: %s\n", strings.Join(c.Problems, ", "))
	}
}

func (o *Output) printPermissions(p Permissions) {
	names := make([]string, 0, len(p.Permissions))
	for name := range p.Permissions {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(o.w, "Contest: %s\n", p.ContestID)
	for _, name := range names {
		fmt.Fprintf(o.w, "  %-26s %s\n", name, yesNo(p.Permissions[name]))
	}
}

func (o *Output) printStandings(s Standings) {
	fmt.Fprintf(o.w, "Standings for %s\n", s.ContestID)
	if len(s.Rows) == 0 {
		fmt.Fprintln(o.w, "No contestants yet")
		return
	}
	for _, row := range s.Rows {
		fmt.Fprintf(o.w, "%3d. %-20s solved %d, penalty %d\n", row.Rank, row.ContestantID, row.SolvedCount, row.TotalPenalty)
		for _, cell := range row.Cells {
			if cell.Attempts == 0 {
				continue
			}
			switch {
			case cell.Solved:
				fmt.Fprintf(o.w, "       %s: +%d (%d min)\n", cell.ProblemID, cell.Attempts-1, cell.PenaltyMinutes)
			default:
				fmt.Fprintf(o.w, "       %s: -%d\n", cell.ProblemID, cell.Attempts)
			}
		}
	}
}

func (o *Output) printRecord(r Record) {
	fmt.Fprintf(o.w, "Record: %s\n", r.ID)
	fmt.Fprintf(o.w, "Problem: %s\n", r.ProblemID)
	if r.ContestID != "" {
		fmt.Fprintf(o.w, "Contest: %s\n", r.ContestID)
	}
	fmt.Fprintf(o.w, "Submitter: %s\n", r.SubmitterID)
	fmt.Fprintf(o.w, "Language: %s\n", r.Language)
	fmt.Fprintf(o.w, "Verdict: %s\n", r.Verdict)
	if r.Verdict != "Pending" && r.Verdict != "Judging" {
		fmt.Fprintf(o.w, "Score: %d (%d ms, %d KB)\n", r.Score, r.TimeMs, r.MemoryKB)
	}
	if r.Message != "" {
		fmt.Fprintf(o.w, "Message: %s\n", r.Message)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
	fmt.Fprintf(o.w, "Connections: %d\n", h.Connections)
	fmt.Fprintf(o.w, "Topics: %d\n", h.Topics)
}
