package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/dependencies/mocks"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage/memory"
	"github.com/mcoot/judgecore/internal/testutil"
)

var (
	admin  = model.Requester{UserID: "admin", Role: model.SystemRoleAdmin}
	alice  = model.Requester{UserID: "alice", Role: model.SystemRoleUser}
	bob    = model.Requester{UserID: "bob", Role: model.SystemRoleUser}
	banned = model.Requester{UserID: "banned", Role: model.SystemRoleBanned}
)

type recordingPublisher struct {
	mu   sync.Mutex
	chat []*model.ChatMessage
	pms  []*model.PrivateMessage
}

func (p *recordingPublisher) ChatMessage(msg *model.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chat = append(p.chat, msg)
}

func (p *recordingPublisher) PrivateMessage(msg *model.PrivateMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pms = append(p.pms, msg)
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Storage
	ids       *mocks.MockIDGen
	publisher *recordingPublisher
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.ids = mocks.NewMockIDGen()
	s.publisher = &recordingPublisher{}
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	resolver := scope.NewResolver(scope.NewStoreLookups(s.store), clk)
	s.service = New(s.store, resolver, s.publisher, clk, s.ids, testutil.NopLogger())

	for _, r := range []model.Requester{admin, alice, bob, banned} {
		s.Require().NoError(s.store.SaveUser(s.ctx, &model.User{ID: r.UserID, Username: string(r.UserID), Role: r.Role}))
	}
}

func (s *ServiceSuite) createRoom(id model.RoomID, private bool) {
	s.ids.Queue(string(id))
	_, err := s.service.CreateRoom(s.ctx, alice, RoomInput{Name: "Room " + string(id), Private: private})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCreateRoomJoinsCreator() {
	s.createRoom("lobby", false)

	member, err := s.store.IsRoomMember(s.ctx, "lobby", "alice")
	s.Require().NoError(err)
	s.True(member)
}

func (s *ServiceSuite) TestCreateRoomRequiresOperate() {
	_, err := s.service.CreateRoom(s.ctx, banned, RoomInput{Name: "x"})
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestJoinRoom() {
	s.createRoom("lobby", false)
	s.createRoom("secret", true)

	s.NoError(s.service.JoinRoom(s.ctx, bob, "lobby"))
	s.ErrorIs(s.service.JoinRoom(s.ctx, bob, "lobby"), model.ErrAlreadyInRoom)
	s.ErrorIs(s.service.JoinRoom(s.ctx, bob, "secret"), model.ErrForbidden)
	s.NoError(s.service.JoinRoom(s.ctx, admin, "secret"))
	s.ErrorIs(s.service.JoinRoom(s.ctx, banned, "lobby"), model.ErrForbidden)
	s.ErrorIs(s.service.JoinRoom(s.ctx, bob, "nowhere"), model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestSendRoomMessageRequiresMembership() {
	s.createRoom("lobby", false)

	_, err := s.service.SendRoomMessage(s.ctx, bob, "lobby", "hello")
	s.ErrorIs(err, model.ErrNotRoomMember)
	s.ErrorIs(err, model.ErrForbidden)
	s.Empty(s.publisher.chat)

	s.Require().NoError(s.service.JoinRoom(s.ctx, bob, "lobby"))
	msg, err := s.service.SendRoomMessage(s.ctx, bob, "lobby", "hello")
	s.Require().NoError(err)
	s.Equal(model.UserID("bob"), msg.SenderID)

	s.Require().Len(s.publisher.chat, 1)
	s.Equal("hello", s.publisher.chat[0].Content)
}

func (s *ServiceSuite) TestSendRoomMessageValidation() {
	s.createRoom("lobby", false)

	_, err := s.service.SendRoomMessage(s.ctx, alice, "lobby", "")
	s.ErrorIs(err, model.ErrValidationFailed)
	_, err = s.service.SendRoomMessage(s.ctx, alice, "lobby", strings.Repeat("x", 2001))
	s.ErrorIs(err, model.ErrValidationFailed)
	_, err = s.service.SendRoomMessage(s.ctx, model.Anonymous(), "lobby", "hi")
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *ServiceSuite) TestRoomHistory() {
	s.createRoom("lobby", false)
	for _, content := range []string{"one", "two"} {
		_, err := s.service.SendRoomMessage(s.ctx, alice, "lobby", content)
		s.Require().NoError(err)
	}

	history, err := s.service.RoomHistory(s.ctx, alice, "lobby")
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("one", history[0].Content)

	_, err = s.service.RoomHistory(s.ctx, bob, "lobby")
	s.ErrorIs(err, model.ErrNotRoomMember)
}

func (s *ServiceSuite) TestPrivateMessages() {
	msg, err := s.service.SendPrivateMessage(s.ctx, alice, "bob", "psst")
	s.Require().NoError(err)
	s.Equal(model.UserID("bob"), msg.ToID)
	s.Require().Len(s.publisher.pms, 1)

	_, err = s.service.SendPrivateMessage(s.ctx, bob, "alice", "hey")
	s.Require().NoError(err)

	history, err := s.service.PrivateHistory(s.ctx, bob, "alice")
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("psst", history[0].Content)
}

func (s *ServiceSuite) TestPrivateMessageRestrictions() {
	_, err := s.service.SendPrivateMessage(s.ctx, alice, "ghost", "hi")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.service.SendPrivateMessage(s.ctx, banned, "alice", "hi")
	s.ErrorIs(err, model.ErrForbidden)

	_, err = s.service.SendPrivateMessage(s.ctx, model.Anonymous(), "alice", "hi")
	s.ErrorIs(err, model.ErrUnauthenticated)

	_, err = s.service.PrivateHistory(s.ctx, model.Anonymous(), "alice")
	s.ErrorIs(err, model.ErrUnauthenticated)
	s.Empty(s.publisher.pms)
}
