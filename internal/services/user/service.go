package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// ProfileUpdate holds the editable profile fields; nil fields are left unchanged
type ProfileUpdate struct {
	Nickname *string `validate:"omitnil,min=1,max=64"`
	Bio      *string `validate:"omitnil,max=1024"`
}

// Service manages user profiles and system roles
type Service struct {
	storage  storage.Storage
	resolver *scope.Resolver
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new user Service
func New(storage storage.Storage, resolver *scope.Resolver, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
		logger:   logger.With(slog.String("component", "user")),
	}
}

// GetProfile returns a user's profile
func (s *Service) GetProfile(ctx context.Context, req model.Requester, id model.UserID) (*model.User, error) {
	if err := validation.ID(string(id)); err != nil {
		return nil, err
	}
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapViewProfile); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits a profile. Users edit their own; Su and Admin edit anyone's.
func (s *Service) UpdateProfile(ctx context.Context, req model.Requester, id model.UserID, update ProfileUpdate) (*model.User, error) {
	if err := validation.Struct(update); err != nil {
		return nil, err
	}
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	sc := scope.For(req).Subject(id)
	if err := s.resolver.AssertAny(ctx, sc, model.CapEditProfileSelf, model.CapEditProfile); err != nil {
		return nil, err
	}

	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's system role, e.g. to ban or unban them. Only Su may
// grant a privileged role or change a privileged user's role.
func (s *Service) SetRole(ctx context.Context, req model.Requester, id model.UserID, role model.SystemRole) (*model.User, error) {
	if _, err := model.ParseSystemRole(role.String()); err != nil {
		return nil, err
	}
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, scope.For(req), model.CapEditProfile); err != nil {
		return nil, err
	}

	if (role.IsPrivileged() || user.Role.IsPrivileged()) && req.Role != model.SystemRoleSu {
		return nil, fmt.Errorf("%w: only su may change privileged roles", model.ErrForbidden)
	}
	if user.ID == req.UserID {
		return nil, fmt.Errorf("%w: cannot change your own role", model.ErrForbidden)
	}

	previous := user.Role
	user.Role = role
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("system role changed",
		slog.String("user_id", string(user.ID)),
		slog.String("by", string(req.UserID)),
		slog.String("from", previous.String()),
		slog.String("to", role.String()))
	return user, nil
}
