package redis

import (
	"fmt"

	"github.com/mcoot/judgecore/internal/model"
)

// Key prefix for all judge data
const keyPrefix = "oj"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// teamKey returns the Redis key for a Team
func teamKey(id model.TeamID) string {
	return fmt.Sprintf("%s:team:%s", keyPrefix, id)
}

// teamMembersKey returns the Redis key for the HASH of user_id -> team role
func teamMembersKey(id model.TeamID) string {
	return fmt.Sprintf("%s:team:%s:members", keyPrefix, id)
}

// contestKey returns the Redis key for a Contest
func contestKey(id model.ContestID) string {
	return fmt.Sprintf("%s:contest:%s", keyPrefix, id)
}

// participantsKey returns the Redis key for the HASH of user_id -> contest role
func participantsKey(id model.ContestID) string {
	return fmt.Sprintf("%s:contest:%s:participants", keyPrefix, id)
}

// problemKey returns the Redis key for a Problem
func problemKey(id model.ProblemID) string {
	return fmt.Sprintf("%s:problem:%s", keyPrefix, id)
}

// recordKey returns the Redis key for a Record
func recordKey(id model.RecordID) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, id)
}

// contestRecordsIndexKey returns the Redis key for the ZSET of record IDs scored by submit time
func contestRecordsIndexKey(id model.ContestID) string {
	return fmt.Sprintf("%s:idx:contest_records:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomMembersKey returns the Redis key for the SET of room members
func roomMembersKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s:members", keyPrefix, id)
}

// roomMessagesKey returns the Redis key for the LIST of room messages
func roomMessagesKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s:messages", keyPrefix, id)
}

// privateMessagesKey returns the Redis key for the LIST of messages between two users
func privateMessagesKey(a, b model.UserID) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s:pm:%s:%s", keyPrefix, a, b)
}
