package topicauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/dependencies/mocks"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage/memory"
)

var (
	admin      = model.Requester{UserID: "admin", Role: model.SystemRoleAdmin}
	alice      = model.Requester{UserID: "alice", Role: model.SystemRoleUser}
	jury       = model.Requester{UserID: "jury", Role: model.SystemRoleUser}
	stranger   = model.Requester{UserID: "stranger", Role: model.SystemRoleUser}
	guest      = model.Anonymous()
	beginOfDay = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

type AuthorizerSuite struct {
	suite.Suite
	ctx        context.Context
	authorizer *Authorizer
}

func TestAuthorizerSuite(t *testing.T) {
	suite.Run(t, new(AuthorizerSuite))
}

func (s *AuthorizerSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.New()
	clk := mocks.NewMockClock(beginOfDay.Add(time.Minute))
	s.authorizer = New(store, scope.NewResolver(scope.NewStoreLookups(store), clk))

	s.Require().NoError(store.SaveTeam(s.ctx, &model.Team{ID: "t1"}))
	for _, c := range []*model.Contest{
		{ID: "open", TeamID: "t1", BeginTime: beginOfDay, EndTime: beginOfDay.Add(time.Hour)},
		{ID: "closed", TeamID: "t1", Private: true, BeginTime: beginOfDay, EndTime: beginOfDay.Add(time.Hour)},
	} {
		s.Require().NoError(store.SaveContest(s.ctx, c))
	}
	s.Require().NoError(store.SetParticipant(s.ctx, "closed", "alice", model.ContestRoleContestant))
	s.Require().NoError(store.SetParticipant(s.ctx, "closed", "jury", model.ContestRoleJury))
	s.Require().NoError(store.SaveRecord(s.ctx, &model.Record{ID: "r1", TeamID: "t1", ContestID: "closed", ProblemID: "p1", SubmitterID: "alice"}))
	s.Require().NoError(store.SaveRoom(s.ctx, &model.Room{ID: "lobby"}))
	s.Require().NoError(store.AddRoomMember(s.ctx, "lobby", "alice"))
}

func (s *AuthorizerSuite) TestTopics() {
	tests := []struct {
		name    string
		req     model.Requester
		topic   string
		wantErr error
	}{
		{"own user topic", alice, broadcast.UserTopic("alice"), nil},
		{"other user topic", stranger, broadcast.UserTopic("alice"), model.ErrForbidden},
		{"admin user topic", admin, broadcast.UserTopic("alice"), nil},
		{"guest user topic", guest, broadcast.UserTopic("alice"), model.ErrUnauthenticated},

		{"room member", alice, broadcast.RoomTopic("lobby"), nil},
		{"room outsider", stranger, broadcast.RoomTopic("lobby"), model.ErrNotRoomMember},
		{"unknown room", alice, broadcast.RoomTopic("attic"), model.ErrRoomNotFound},

		{"own record", alice, broadcast.RecordTopic("r1"), nil},
		{"jury sees record", jury, broadcast.RecordTopic("r1"), nil},
		{"stranger record", stranger, broadcast.RecordTopic("r1"), model.ErrForbidden},
		{"unknown record", alice, broadcast.RecordTopic("r9"), model.ErrRecordNotFound},

		{"public scoreboard", guest, broadcast.ContestTopic("open"), nil},
		{"private scoreboard participant", alice, broadcast.ContestTopic("closed"), nil},
		{"private scoreboard stranger", stranger, broadcast.ContestTopic("closed"), model.ErrForbidden},

		{"own contest verdicts", alice, broadcast.ContestRecordTopic("closed", "p1", "alice"), nil},
		{"jury contest verdicts", jury, broadcast.ContestRecordTopic("closed", "p1", "alice"), nil},
		{"other contestant verdicts", stranger, broadcast.ContestRecordTopic("open", "p1", "alice"), model.ErrForbidden},

		{"unknown family", alice, "weather:today", broadcast.ErrInvalidTopic},
		{"malformed id", alice, "user:a/b", broadcast.ErrInvalidTopic},
		{"wrong arity", alice, "contest:open:p1", broadcast.ErrInvalidTopic},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.authorizer.AuthorizeSubscribe(s.ctx, tt.req, tt.topic)
			if tt.wantErr == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tt.wantErr)
		})
	}
}
