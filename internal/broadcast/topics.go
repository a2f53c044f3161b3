package broadcast

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mcoot/judgecore/internal/model"
)

// maxTopicLength bounds topic names accepted from clients
const maxTopicLength = 256

// Topic families
const (
	TopicUser    = "user"
	TopicRoom    = "room"
	TopicRecord  = "record"
	TopicContest = "contest"
)

// ErrInvalidTopic is returned for empty, oversized or malformed topic names
var ErrInvalidTopic = errors.New("invalid topic")

// UserTopic carries private messages addressed to a user
func UserTopic(id model.UserID) string {
	return TopicUser + ":" + string(id)
}

// RoomTopic carries chat messages for a room
func RoomTopic(id model.RoomID) string {
	return TopicRoom + ":" + string(id)
}

// RecordTopic carries judging updates for a single record
func RecordTopic(id model.RecordID) string {
	return TopicRecord + ":" + string(id)
}

// ContestRecordTopic carries a contestant's judging updates for one contest problem
func ContestRecordTopic(contestID model.ContestID, problemID model.ProblemID, submitterID model.UserID) string {
	return fmt.Sprintf("%s:%s:%s:%s", TopicContest, contestID, problemID, submitterID)
}

// ContestTopic carries scoreboard updates for a contest
func ContestTopic(contestID model.ContestID) string {
	return TopicContest + ":" + string(contestID)
}

// ValidateTopic checks a topic name received from a client
func ValidateTopic(topic string) error {
	if topic == "" || len(topic) > maxTopicLength {
		return ErrInvalidTopic
	}
	for _, r := range topic {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrInvalidTopic
		}
	}
	return nil
}

// ParseTopic splits a topic into its family and parts, e.g. "contest:c1:p1:u1" -> ("contest", [c1 p1 u1])
func ParseTopic(topic string) (family string, parts []string) {
	fields := strings.Split(topic, ":")
	return fields[0], fields[1:]
}
