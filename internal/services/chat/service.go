package chat

import (
	"context"
	"log/slog"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// Publisher delivers chat traffic to subscribers
type Publisher interface {
	ChatMessage(msg *model.ChatMessage)
	PrivateMessage(msg *model.PrivateMessage)
}

// RoomInput holds the fields for a new room
type RoomInput struct {
	Name    string `validate:"required,max=64"`
	Private bool
}

type messageInput struct {
	Content string `validate:"required,max=2000"`
}

// Service manages chat rooms and direct messages
type Service struct {
	storage   storage.Storage
	resolver  *scope.Resolver
	publisher Publisher
	clock     clock.Clock
	ids       idgen.Generator
	logger    *slog.Logger
}

// New creates a new chat Service
func New(
	storage storage.Storage,
	resolver *scope.Resolver,
	publisher Publisher,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		resolver:  resolver,
		publisher: publisher,
		clock:     clock,
		ids:       ids,
		logger:    logger.With(slog.String("component", "chat")),
	}
}

// CreateRoom makes a room with the requester as its first member
func (s *Service) CreateRoom(ctx context.Context, req model.Requester, in RoomInput) (*model.Room, error) {
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapCreateRoom); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:        model.RoomID(s.ids.NewID()),
		Name:      in.Name,
		Private:   in.Private,
		CreatedBy: req.UserID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if err := s.storage.AddRoomMember(ctx, room.ID, req.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("by", string(req.UserID)))
	return room, nil
}

// JoinRoom adds the requester to a room. Private rooms can only be joined by Su and Admin.
func (s *Service) JoinRoom(ctx context.Context, req model.Requester, id model.RoomID) error {
	if err := validation.ID(string(id)); err != nil {
		return err
	}
	if _, err := s.storage.GetRoom(ctx, id); err != nil {
		return err
	}
	sc := scope.For(req).Resource(scope.ResourceRoom, string(id))
	if err := s.resolver.Assert(ctx, sc, model.CapJoinRoomPublic); err != nil {
		return err
	}

	member, err := s.storage.IsRoomMember(ctx, id, req.UserID)
	if err != nil {
		return err
	}
	if member {
		return model.ErrAlreadyInRoom
	}
	return s.storage.AddRoomMember(ctx, id, req.UserID)
}

// SendRoomMessage posts to a room the requester belongs to and publishes it on the room topic
func (s *Service) SendRoomMessage(ctx context.Context, req model.Requester, id model.RoomID, content string) (*model.ChatMessage, error) {
	if err := s.resolver.AssertPrivilege(scope.For(req), model.PrivOperate); err != nil {
		return nil, err
	}
	if err := validation.Struct(messageInput{Content: content}); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, req, id); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		ID:       s.ids.NewID(),
		RoomID:   id,
		SenderID: req.UserID,
		Content:  content,
		SentAt:   s.clock.Now(),
	}
	if err := s.storage.SaveChatMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.publisher.ChatMessage(msg)
	return msg, nil
}

// RoomHistory returns a room's stored messages, oldest first
func (s *Service) RoomHistory(ctx context.Context, req model.Requester, id model.RoomID) ([]*model.ChatMessage, error) {
	if req.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	if err := s.requireMember(ctx, req, id); err != nil {
		return nil, err
	}
	return s.storage.ListChatMessages(ctx, id)
}

func (s *Service) requireMember(ctx context.Context, req model.Requester, id model.RoomID) error {
	if err := validation.ID(string(id)); err != nil {
		return err
	}
	if _, err := s.storage.GetRoom(ctx, id); err != nil {
		return err
	}
	member, err := s.storage.IsRoomMember(ctx, id, req.UserID)
	if err != nil {
		return err
	}
	if !member {
		return model.ErrNotRoomMember
	}
	return nil
}

// SendPrivateMessage delivers a direct message and publishes it on the recipient's topic
func (s *Service) SendPrivateMessage(ctx context.Context, req model.Requester, to model.UserID, content string) (*model.PrivateMessage, error) {
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapSendPM); err != nil {
		return nil, err
	}
	if err := validation.ID(string(to)); err != nil {
		return nil, err
	}
	if err := validation.Struct(messageInput{Content: content}); err != nil {
		return nil, err
	}
	if _, err := s.storage.GetUser(ctx, to); err != nil {
		return nil, err
	}

	msg := &model.PrivateMessage{
		ID:      s.ids.NewID(),
		FromID:  req.UserID,
		ToID:    to,
		Content: content,
		SentAt:  s.clock.Now(),
	}
	if err := s.storage.SavePrivateMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.publisher.PrivateMessage(msg)
	return msg, nil
}

// PrivateHistory returns the conversation between the requester and another user
func (s *Service) PrivateHistory(ctx context.Context, req model.Requester, with model.UserID) ([]*model.PrivateMessage, error) {
	if err := s.resolver.Assert(ctx, scope.For(req).Subject(req.UserID), model.CapViewUserPMSelf); err != nil {
		return nil, err
	}
	if err := validation.ID(string(with)); err != nil {
		return nil, err
	}
	if _, err := s.storage.GetUser(ctx, with); err != nil {
		return nil, err
	}
	return s.storage.ListPrivateMessages(ctx, req.UserID, with)
}
