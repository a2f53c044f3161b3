package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection, for health reporting
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads a JSON value, mapping a missing key to notFound
func getJSON[T any](ctx context.Context, c *redis.Client, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Storage) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return getJSON[model.User](ctx, s.client, userKey(id), model.ErrUserNotFound)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(id))
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	return s.setJSON(ctx, teamKey(team.ID), team)
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	return getJSON[model.Team](ctx, s.client, teamKey(id), model.ErrTeamNotFound)
}

func (s *Storage) SetTeamMember(ctx context.Context, teamID model.TeamID, userID model.UserID, role model.TeamRole) error {
	if err := s.requireKey(ctx, teamKey(teamID), model.ErrTeamNotFound); err != nil {
		return err
	}
	if role == model.TeamRoleNone {
		return s.client.HDel(ctx, teamMembersKey(teamID), string(userID)).Err()
	}
	return s.client.HSet(ctx, teamMembersKey(teamID), string(userID), role.String()).Err()
}

func (s *Storage) GetTeamMemberRole(ctx context.Context, teamID model.TeamID, userID model.UserID) (model.TeamRole, error) {
	name, err := s.roleLookup(ctx, teamKey(teamID), teamMembersKey(teamID), userID, model.ErrTeamNotFound)
	if err != nil {
		return model.TeamRoleNone, err
	}
	return model.ParseTeamRole(name)
}

func (s *Storage) ListTeamMembers(ctx context.Context, teamID model.TeamID) ([]model.TeamMember, error) {
	if err := s.requireKey(ctx, teamKey(teamID), model.ErrTeamNotFound); err != nil {
		return nil, err
	}
	rows, err := s.client.HGetAll(ctx, teamMembersKey(teamID)).Result()
	if err != nil {
		return nil, err
	}

	members := make([]model.TeamMember, 0, len(rows))
	for userID, name := range rows {
		role, err := model.ParseTeamRole(name)
		if err != nil {
			continue // Skip invalid data
		}
		members = append(members, model.TeamMember{TeamID: teamID, UserID: model.UserID(userID), Role: role})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

// Contest operations

func (s *Storage) SaveContest(ctx context.Context, contest *model.Contest) error {
	return s.setJSON(ctx, contestKey(contest.ID), contest)
}

func (s *Storage) GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error) {
	return getJSON[model.Contest](ctx, s.client, contestKey(id), model.ErrContestNotFound)
}

func (s *Storage) SetParticipant(ctx context.Context, contestID model.ContestID, userID model.UserID, role model.ContestRole) error {
	if err := s.requireKey(ctx, contestKey(contestID), model.ErrContestNotFound); err != nil {
		return err
	}
	if role == model.ContestRoleNone {
		return s.client.HDel(ctx, participantsKey(contestID), string(userID)).Err()
	}
	return s.client.HSet(ctx, participantsKey(contestID), string(userID), role.String()).Err()
}

func (s *Storage) GetParticipantRole(ctx context.Context, contestID model.ContestID, userID model.UserID) (model.ContestRole, error) {
	name, err := s.roleLookup(ctx, contestKey(contestID), participantsKey(contestID), userID, model.ErrContestNotFound)
	if err != nil {
		return model.ContestRoleNone, err
	}
	return model.ParseContestRole(name)
}

func (s *Storage) ListParticipants(ctx context.Context, contestID model.ContestID) ([]model.Participant, error) {
	if err := s.requireKey(ctx, contestKey(contestID), model.ErrContestNotFound); err != nil {
		return nil, err
	}
	rows, err := s.client.HGetAll(ctx, participantsKey(contestID)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.Participant, 0, len(rows))
	for userID, name := range rows {
		role, err := model.ParseContestRole(name)
		if err != nil {
			continue // Skip invalid data
		}
		out = append(out, model.Participant{ContestID: contestID, UserID: model.UserID(userID), Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Problem operations

func (s *Storage) SaveProblem(ctx context.Context, problem *model.Problem) error {
	return s.setJSON(ctx, problemKey(problem.ID), problem)
}

func (s *Storage) GetProblem(ctx context.Context, id model.ProblemID) (*model.Problem, error) {
	return getJSON[model.Problem](ctx, s.client, problemKey(id), model.ErrProblemNotFound)
}

// Record operations

func (s *Storage) SaveRecord(ctx context.Context, record *model.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(record.ID), data, 0)
	if record.ContestID != "" {
		pipe.ZAdd(ctx, contestRecordsIndexKey(record.ContestID), redis.Z{
			Score:  float64(record.SubmittedAt.UnixMilli()),
			Member: string(record.ID),
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRecord(ctx context.Context, id model.RecordID) (*model.Record, error) {
	return getJSON[model.Record](ctx, s.client, recordKey(id), model.ErrRecordNotFound)
}

func (s *Storage) ListContestRecords(ctx context.Context, contestID model.ContestID) ([]*model.Record, error) {
	ids, err := s.client.ZRange(ctx, contestRecordsIndexKey(contestID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(model.RecordID(id))
	}

	// Fetch all records in one round trip
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.Record, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var record model.Record
		if err := json.Unmarshal([]byte(str), &record); err != nil {
			continue // Skip invalid data
		}
		records = append(records, &record)
	}

	// The index is millisecond precision; restore exact order
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].SubmittedAt.Equal(records[j].SubmittedAt) {
			return records[i].SubmittedAt.Before(records[j].SubmittedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Chat operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	return s.setJSON(ctx, roomKey(room.ID), room)
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return getJSON[model.Room](ctx, s.client, roomKey(id), model.ErrRoomNotFound)
}

func (s *Storage) AddRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	if err := s.requireKey(ctx, roomKey(roomID), model.ErrRoomNotFound); err != nil {
		return err
	}
	return s.client.SAdd(ctx, roomMembersKey(roomID), string(userID)).Err()
}

func (s *Storage) IsRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) (bool, error) {
	if err := s.requireKey(ctx, roomKey(roomID), model.ErrRoomNotFound); err != nil {
		return false, err
	}
	return s.client.SIsMember(ctx, roomMembersKey(roomID), string(userID)).Result()
}

func (s *Storage) SaveChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	return s.appendHistory(ctx, roomMessagesKey(msg.RoomID), msg)
}

func (s *Storage) ListChatMessages(ctx context.Context, roomID model.RoomID) ([]*model.ChatMessage, error) {
	if err := s.requireKey(ctx, roomKey(roomID), model.ErrRoomNotFound); err != nil {
		return nil, err
	}
	return readHistory[model.ChatMessage](ctx, s.client, roomMessagesKey(roomID))
}

func (s *Storage) SavePrivateMessage(ctx context.Context, msg *model.PrivateMessage) error {
	return s.appendHistory(ctx, privateMessagesKey(msg.FromID, msg.ToID), msg)
}

func (s *Storage) ListPrivateMessages(ctx context.Context, a, b model.UserID) ([]*model.PrivateMessage, error) {
	return readHistory[model.PrivateMessage](ctx, s.client, privateMessagesKey(a, b))
}

// Helpers

// requireKey returns notFound when key does not exist
func (s *Storage) requireKey(ctx context.Context, key string, notFound error) error {
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return notFound
	}
	return nil
}

// roleLookup reads a role hash field, checking the owning entity exists in the same round trip
func (s *Storage) roleLookup(ctx context.Context, entityKey, hashKey string, userID model.UserID, notFound error) (string, error) {
	pipe := s.client.Pipeline()
	exists := pipe.Exists(ctx, entityKey)
	role := pipe.HGet(ctx, hashKey, string(userID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	if exists.Val() == 0 {
		return "", notFound
	}
	if errors.Is(role.Err(), redis.Nil) {
		return "", nil
	}
	return role.Val(), role.Err()
}

func (s *Storage) appendHistory(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if s.cfg.HistoryLimit > 0 {
		pipe.LTrim(ctx, key, -s.cfg.HistoryLimit, -1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func readHistory[T any](ctx context.Context, c *redis.Client, key string) ([]*T, error) {
	values, err := c.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(values))
	for _, val := range values {
		var v T
		if err := json.Unmarshal([]byte(val), &v); err != nil {
			continue // Skip invalid data
		}
		out = append(out, &v)
	}
	return out, nil
}
