package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// Session is an issued access token and the user it was issued to
type Session struct {
	Token     string
	User      model.User
	ExpiresAt time.Time
}

// claims is the signed token body; the subject is the user ID
type claims struct {
	jwt.RegisteredClaims
}

// Credentials are the fields accepted on registration
type Credentials struct {
	Username string `validate:"required,min=3,max=32,ident"`
	Password string `validate:"required,min=6,max=128"`
	Nickname string `validate:"max=64"`
}

// Service handles accounts and token issuance
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger

	secret   []byte
	tokenTTL time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		ids:      ids,
		logger:   logger.With(slog.String("component", "auth")),
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Register creates a User account and issues a token for it
func (s *Service) Register(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.createUser(ctx, creds, model.SystemRoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *Service) createUser(ctx context.Context, creds Credentials, role model.SystemRole) (*model.User, error) {
	if err := validation.Struct(creds); err != nil {
		return nil, err
	}

	// Check if username exists
	_, err := s.storage.GetUserByUsername(ctx, creds.Username)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nickname := creds.Nickname
	if nickname == "" {
		nickname = creds.Username
	}
	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(s.ids.NewID()),
		Username:     creds.Username,
		Nickname:     nickname,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
		slog.String("role", user.Role.String()))
	return user, nil
}

// Login checks a username and password and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate verifies a token and loads its user. The user is re-read on
// every call so role changes such as a ban apply to existing tokens.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	user, err := s.storage.GetUser(ctx, model.UserID(c.Subject))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser creates the account with the given role if the username is free,
// otherwise it sets the existing account's role. Used to seed a superuser.
func (s *Service) EnsureUser(ctx context.Context, username, password string, role model.SystemRole) (*model.User, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return s.createUser(ctx, Credentials{Username: username, Password: password}, role)
	case err != nil:
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}
	user.Role = role
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user role set",
		slog.String("user_id", string(user.ID)),
		slog.String("role", role.String()))
	return user, nil
}

// issue signs a token for user
func (s *Service) issue(user *model.User) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        s.ids.NewID(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{Token: signed, User: *user, ExpiresAt: expires}, nil
}
