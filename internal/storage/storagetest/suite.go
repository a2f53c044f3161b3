package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
)

// Suite is the behavioural contract every storage implementation must satisfy.
// Implementations run it with suite.Run, supplying a constructor for a fresh store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
	now     time.Time
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) saveTeam(id model.TeamID) {
	s.Require().NoError(s.storage.SaveTeam(s.ctx, &model.Team{ID: id, Name: string(id), CreatedAt: s.now}))
}

func (s *Suite) saveContest(id model.ContestID) {
	s.Require().NoError(s.storage.SaveContest(s.ctx, &model.Contest{
		ID:        id,
		TeamID:    "team-1",
		Title:     "Weekly",
		BeginTime: s.now,
		EndTime:   s.now.Add(2 * time.Hour),
		Problems:  []model.ProblemID{"A", "B"},
	}))
}

// User tests

func (s *Suite) TestSaveAndGetUser() {
	user := &model.User{ID: "user-1", Username: "alice", Nickname: "Alice", Role: model.SystemRoleUser, CreatedAt: s.now}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal(model.SystemRoleUser, got.Role)

	byName, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byName.ID)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.ErrorIs(err, model.ErrNotFound)

	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestReturnedUserIsACopy() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{ID: "user-1", Username: "alice", Role: model.SystemRoleUser}))

	got, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	got.Role = model.SystemRoleBanned

	again, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(model.SystemRoleUser, again.Role)
}

// Team tests

func (s *Suite) TestTeamMembership() {
	s.saveTeam("team-1")

	role, err := s.storage.GetTeamMemberRole(s.ctx, "team-1", "user-1")
	s.Require().NoError(err)
	s.Equal(model.TeamRoleNone, role)

	s.Require().NoError(s.storage.SetTeamMember(s.ctx, "team-1", "user-1", model.TeamRoleOwner))
	s.Require().NoError(s.storage.SetTeamMember(s.ctx, "team-1", "user-2", model.TeamRoleMember))

	role, err = s.storage.GetTeamMemberRole(s.ctx, "team-1", "user-1")
	s.Require().NoError(err)
	s.Equal(model.TeamRoleOwner, role)

	members, err := s.storage.ListTeamMembers(s.ctx, "team-1")
	s.Require().NoError(err)
	s.Equal([]model.TeamMember{
		{TeamID: "team-1", UserID: "user-1", Role: model.TeamRoleOwner},
		{TeamID: "team-1", UserID: "user-2", Role: model.TeamRoleMember},
	}, members)

	// Removing a membership
	s.Require().NoError(s.storage.SetTeamMember(s.ctx, "team-1", "user-2", model.TeamRoleNone))
	role, err = s.storage.GetTeamMemberRole(s.ctx, "team-1", "user-2")
	s.Require().NoError(err)
	s.Equal(model.TeamRoleNone, role)
}

func (s *Suite) TestTeamMembershipUnknownTeam() {
	_, err := s.storage.GetTeamMemberRole(s.ctx, "missing", "user-1")
	s.ErrorIs(err, model.ErrTeamNotFound)

	err = s.storage.SetTeamMember(s.ctx, "missing", "user-1", model.TeamRoleOwner)
	s.ErrorIs(err, model.ErrTeamNotFound)

	_, err = s.storage.GetTeam(s.ctx, "missing")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

// Contest tests

func (s *Suite) TestSaveAndGetContest() {
	s.saveContest("contest-1")

	got, err := s.storage.GetContest(s.ctx, "contest-1")
	s.Require().NoError(err)
	s.Equal("Weekly", got.Title)
	s.True(got.BeginTime.Equal(s.now))
	s.Equal([]model.ProblemID{"A", "B"}, got.Problems)
}

func (s *Suite) TestParticipants() {
	s.saveContest("contest-1")

	s.Require().NoError(s.storage.SetParticipant(s.ctx, "contest-1", "user-1", model.ContestRoleContestant))
	s.Require().NoError(s.storage.SetParticipant(s.ctx, "contest-1", "user-2", model.ContestRoleMod))

	role, err := s.storage.GetParticipantRole(s.ctx, "contest-1", "user-2")
	s.Require().NoError(err)
	s.Equal(model.ContestRoleMod, role)

	role, err = s.storage.GetParticipantRole(s.ctx, "contest-1", "user-3")
	s.Require().NoError(err)
	s.Equal(model.ContestRoleNone, role)

	list, err := s.storage.ListParticipants(s.ctx, "contest-1")
	s.Require().NoError(err)
	s.Len(list, 2)

	_, err = s.storage.GetParticipantRole(s.ctx, "missing", "user-1")
	s.ErrorIs(err, model.ErrContestNotFound)
}

// Record tests

func (s *Suite) TestContestRecordsAreTimeOrdered() {
	records := []*model.Record{
		{ID: "r-3", SubmitterID: "u1", ProblemID: "A", ContestID: "contest-1", Verdict: model.VerdictAccepted, SubmittedAt: s.now.Add(3 * time.Minute)},
		{ID: "r-1", SubmitterID: "u1", ProblemID: "A", ContestID: "contest-1", Verdict: model.VerdictWrongAnswer, SubmittedAt: s.now.Add(time.Minute)},
		{ID: "r-2", SubmitterID: "u2", ProblemID: "B", ContestID: "contest-1", Verdict: model.VerdictAccepted, SubmittedAt: s.now.Add(2 * time.Minute)},
		{ID: "r-x", SubmitterID: "u2", ProblemID: "B", ContestID: "contest-2", Verdict: model.VerdictAccepted, SubmittedAt: s.now},
		{ID: "r-p", SubmitterID: "u2", ProblemID: "B", Verdict: model.VerdictAccepted, SubmittedAt: s.now},
	}
	for _, r := range records {
		s.Require().NoError(s.storage.SaveRecord(s.ctx, r))
	}

	got, err := s.storage.ListContestRecords(s.ctx, "contest-1")
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(model.RecordID("r-1"), got[0].ID)
	s.Equal(model.RecordID("r-2"), got[1].ID)
	s.Equal(model.RecordID("r-3"), got[2].ID)
}

func (s *Suite) TestUpdateRecordVerdict() {
	r := &model.Record{ID: "r-1", SubmitterID: "u1", ProblemID: "A", ContestID: "contest-1", Verdict: model.VerdictPending, SubmittedAt: s.now}
	s.Require().NoError(s.storage.SaveRecord(s.ctx, r))

	r.Verdict = model.VerdictAccepted
	s.Require().NoError(s.storage.SaveRecord(s.ctx, r))

	got, err := s.storage.GetRecord(s.ctx, "r-1")
	s.Require().NoError(err)
	s.Equal(model.VerdictAccepted, got.Verdict)

	list, err := s.storage.ListContestRecords(s.ctx, "contest-1")
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *Suite) TestGetRecordNotFound() {
	_, err := s.storage.GetRecord(s.ctx, "missing")
	s.ErrorIs(err, model.ErrRecordNotFound)
}

// Problem tests

func (s *Suite) TestSaveAndGetProblem() {
	s.Require().NoError(s.storage.SaveProblem(s.ctx, &model.Problem{ID: "p-1", TeamID: "team-1", Title: "A+B", AllowSubmit: true}))

	got, err := s.storage.GetProblem(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal("A+B", got.Title)
	s.True(got.AllowSubmit)

	_, err = s.storage.GetProblem(s.ctx, "missing")
	s.ErrorIs(err, model.ErrProblemNotFound)
}

// Chat tests

func (s *Suite) TestRoomMembershipAndMessages() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1", Name: "lobby"}))
	s.Require().NoError(s.storage.AddRoomMember(s.ctx, "room-1", "user-1"))

	ok, err := s.storage.IsRoomMember(s.ctx, "room-1", "user-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.storage.IsRoomMember(s.ctx, "room-1", "user-2")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.storage.SaveChatMessage(s.ctx, &model.ChatMessage{ID: "m-1", RoomID: "room-1", SenderID: "user-1", Content: "hi"}))
	s.Require().NoError(s.storage.SaveChatMessage(s.ctx, &model.ChatMessage{ID: "m-2", RoomID: "room-1", SenderID: "user-1", Content: "there"}))

	msgs, err := s.storage.ListChatMessages(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Require().Len(msgs, 2)
	s.Equal("hi", msgs[0].Content)
	s.Equal("there", msgs[1].Content)
}

func (s *Suite) TestRoomNotFound() {
	_, err := s.storage.IsRoomMember(s.ctx, "missing", "user-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	err = s.storage.AddRoomMember(s.ctx, "missing", "user-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestPrivateMessagesAreSharedByBothDirections() {
	s.Require().NoError(s.storage.SavePrivateMessage(s.ctx, &model.PrivateMessage{ID: "pm-1", FromID: "a", ToID: "b", Content: "ping"}))
	s.Require().NoError(s.storage.SavePrivateMessage(s.ctx, &model.PrivateMessage{ID: "pm-2", FromID: "b", ToID: "a", Content: "pong"}))

	msgs, err := s.storage.ListPrivateMessages(s.ctx, "b", "a")
	s.Require().NoError(err)
	s.Require().Len(msgs, 2)
	s.Equal("ping", msgs[0].Content)
	s.Equal("pong", msgs[1].Content)
}
