package model

import "time"

// EventType identifies the kind of a broadcast event
type EventType string

const (
	// Chat events
	EventChatMessage    EventType = "ChatMessage"
	EventPrivateMessage EventType = "PrivateMessage"

	// Judging events
	EventRecordUpdate        EventType = "RecordUpdate"
	EventContestRecordUpdate EventType = "ContestRecordUpdate"
	EventStandingsUpdate     EventType = "StandingsUpdate"

	// Connection control replies
	EventSubscribed   EventType = "Subscribed"
	EventUnsubscribed EventType = "Unsubscribed"
	EventError        EventType = "Error"
)

// Event is the frame delivered to subscribed connections
type Event struct {
	Type    EventType `json:"type"`
	Message any       `json:"message"`
}

// RecordUpdatePayload describes a record's judging state change
type RecordUpdatePayload struct {
	RecordID  RecordID  `json:"record_id"`
	ProblemID ProblemID `json:"problem_id"`
	ContestID ContestID `json:"contest_id,omitempty"`
	Submitter UserID    `json:"submitter_id"`
	Verdict   Verdict   `json:"verdict"`
	Score     int       `json:"score"`
	TimeMs    int       `json:"time_ms"`
	MemoryKB  int       `json:"memory_kb"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StandingsUpdatePayload notifies scoreboard viewers that standings changed
type StandingsUpdatePayload struct {
	ContestID ContestID      `json:"contest_id"`
	Rows      []StandingsRow `json:"rows"`
}
