package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	teams         map[model.TeamID]*model.Team
	teamMembers   map[model.TeamID]map[model.UserID]model.TeamRole
	contests      map[model.ContestID]*model.Contest
	participants  map[model.ContestID]map[model.UserID]model.ContestRole
	problems      map[model.ProblemID]*model.Problem
	records       map[model.RecordID]*model.Record
	rooms         map[model.RoomID]*model.Room
	roomMembers   map[model.RoomID]map[model.UserID]struct{}
	chatMessages  map[model.RoomID][]*model.ChatMessage
	privateMsgs   map[pairKey][]*model.PrivateMessage
}

// pairKey is an unordered pair of users
type pairKey struct {
	a, b model.UserID
}

func newPairKey(a, b model.UserID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		teams:         make(map[model.TeamID]*model.Team),
		teamMembers:   make(map[model.TeamID]map[model.UserID]model.TeamRole),
		contests:      make(map[model.ContestID]*model.Contest),
		participants:  make(map[model.ContestID]map[model.UserID]model.ContestRole),
		problems:      make(map[model.ProblemID]*model.Problem),
		records:       make(map[model.RecordID]*model.Record),
		rooms:         make(map[model.RoomID]*model.Room),
		roomMembers:   make(map[model.RoomID]map[model.UserID]struct{}),
		chatMessages:  make(map[model.RoomID][]*model.ChatMessage),
		privateMsgs:   make(map[pairKey][]*model.PrivateMessage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *team
	s.teams[team.ID] = &t
	return nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	t := *team
	return &t, nil
}

func (s *Storage) SetTeamMember(ctx context.Context, teamID model.TeamID, userID model.UserID, role model.TeamRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[teamID]; !ok {
		return model.ErrTeamNotFound
	}
	members, ok := s.teamMembers[teamID]
	if !ok {
		members = make(map[model.UserID]model.TeamRole)
		s.teamMembers[teamID] = members
	}
	if role == model.TeamRoleNone {
		delete(members, userID)
		return nil
	}
	members[userID] = role
	return nil
}

func (s *Storage) GetTeamMemberRole(ctx context.Context, teamID model.TeamID, userID model.UserID) (model.TeamRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.teams[teamID]; !ok {
		return model.TeamRoleNone, model.ErrTeamNotFound
	}
	return s.teamMembers[teamID][userID], nil
}

func (s *Storage) ListTeamMembers(ctx context.Context, teamID model.TeamID) ([]model.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.teams[teamID]; !ok {
		return nil, model.ErrTeamNotFound
	}
	members := make([]model.TeamMember, 0, len(s.teamMembers[teamID]))
	for userID, role := range s.teamMembers[teamID] {
		members = append(members, model.TeamMember{TeamID: teamID, UserID: userID, Role: role})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

// Contest operations

func (s *Storage) SaveContest(ctx context.Context, contest *model.Contest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *contest
	c.Problems = slices.Clone(contest.Problems)
	s.contests[contest.ID] = &c
	return nil
}

func (s *Storage) GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contest, ok := s.contests[id]
	if !ok {
		return nil, model.ErrContestNotFound
	}
	c := *contest
	c.Problems = slices.Clone(contest.Problems)
	return &c, nil
}

func (s *Storage) SetParticipant(ctx context.Context, contestID model.ContestID, userID model.UserID, role model.ContestRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contests[contestID]; !ok {
		return model.ErrContestNotFound
	}
	participants, ok := s.participants[contestID]
	if !ok {
		participants = make(map[model.UserID]model.ContestRole)
		s.participants[contestID] = participants
	}
	if role == model.ContestRoleNone {
		delete(participants, userID)
		return nil
	}
	participants[userID] = role
	return nil
}

func (s *Storage) GetParticipantRole(ctx context.Context, contestID model.ContestID, userID model.UserID) (model.ContestRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.contests[contestID]; !ok {
		return model.ContestRoleNone, model.ErrContestNotFound
	}
	return s.participants[contestID][userID], nil
}

func (s *Storage) ListParticipants(ctx context.Context, contestID model.ContestID) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.contests[contestID]; !ok {
		return nil, model.ErrContestNotFound
	}
	out := make([]model.Participant, 0, len(s.participants[contestID]))
	for userID, role := range s.participants[contestID] {
		out = append(out, model.Participant{ContestID: contestID, UserID: userID, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Problem operations

func (s *Storage) SaveProblem(ctx context.Context, problem *model.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *problem
	s.problems[problem.ID] = &p
	return nil
}

func (s *Storage) GetProblem(ctx context.Context, id model.ProblemID) (*model.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	problem, ok := s.problems[id]
	if !ok {
		return nil, model.ErrProblemNotFound
	}
	p := *problem
	return &p, nil
}

// Record operations

func (s *Storage) SaveRecord(ctx context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *record
	s.records[record.ID] = &r
	return nil
}

func (s *Storage) GetRecord(ctx context.Context, id model.RecordID) (*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	r := *record
	return &r, nil
}

func (s *Storage) ListContestRecords(ctx context.Context, contestID model.ContestID) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Record
	for _, record := range s.records {
		if record.ContestID != contestID {
			continue
		}
		r := *record
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Chat operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *room
	s.rooms[room.ID] = &r
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	r := *room
	return &r, nil
}

func (s *Storage) AddRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return model.ErrRoomNotFound
	}
	members, ok := s.roomMembers[roomID]
	if !ok {
		members = make(map[model.UserID]struct{})
		s.roomMembers[roomID] = members
	}
	members[userID] = struct{}{}
	return nil
}

func (s *Storage) IsRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.rooms[roomID]; !ok {
		return false, model.ErrRoomNotFound
	}
	_, ok := s.roomMembers[roomID][userID]
	return ok, nil
}

func (s *Storage) SaveChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *msg
	s.chatMessages[msg.RoomID] = append(s.chatMessages[msg.RoomID], &m)
	return nil
}

func (s *Storage) ListChatMessages(ctx context.Context, roomID model.RoomID) ([]*model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, model.ErrRoomNotFound
	}
	out := make([]*model.ChatMessage, 0, len(s.chatMessages[roomID]))
	for _, msg := range s.chatMessages[roomID] {
		m := *msg
		out = append(out, &m)
	}
	return out, nil
}

func (s *Storage) SavePrivateMessage(ctx context.Context, msg *model.PrivateMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *msg
	key := newPairKey(msg.FromID, msg.ToID)
	s.privateMsgs[key] = append(s.privateMsgs[key], &m)
	return nil
}

func (s *Storage) ListPrivateMessages(ctx context.Context, a, b model.UserID) ([]*model.PrivateMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.privateMsgs[newPairKey(a, b)]
	out := make([]*model.PrivateMessage, 0, len(msgs))
	for _, msg := range msgs {
		m := *msg
		out = append(out, &m)
	}
	return out, nil
}
