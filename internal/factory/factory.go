package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/judgecore/internal/api"
	"github.com/mcoot/judgecore/internal/api/handler"
	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/dependencies/idgen"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/auth"
	"github.com/mcoot/judgecore/internal/services/chat"
	"github.com/mcoot/judgecore/internal/services/contest"
	"github.com/mcoot/judgecore/internal/services/judge"
	"github.com/mcoot/judgecore/internal/services/problem"
	"github.com/mcoot/judgecore/internal/services/ranking"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/services/team"
	"github.com/mcoot/judgecore/internal/services/topicauth"
	"github.com/mcoot/judgecore/internal/services/user"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/storage/memory"
	redisstorage "github.com/mcoot/judgecore/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Broadcast
	Hub         *broadcast.Hub
	Broadcaster *broadcast.Broadcaster
	Transport   *broadcast.Transport
	Authorizer  broadcast.SubscribeAuthorizer

	// Services
	Resolver       *scope.Resolver
	AuthService    *auth.Service
	UserService    *user.Service
	TeamService    *team.Service
	ProblemService *problem.Service
	ContestService *contest.Service
	JudgeService   *judge.Service
	ChatService    *chat.Service
	RankingService *ranking.Service

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service. Secret is required.
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SendQueueSize bounds each connection's outbound queue (0 uses the hub default)
	SendQueueSize int
	// StrictSubscribe checks subscriptions against policy instead of admitting all
	StrictSubscribe bool
	// RankingConfig holds ranking settings; zero value uses ranking.DefaultConfig()
	RankingConfig ranking.Config
	// TransportConfig overrides WebSocket settings (optional)
	TransportConfig *broadcast.TransportConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.AuthConfig.Secret == "" {
		return nil, errors.New("AuthConfig.Secret is required")
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), idgen.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, cfg Config, logger *slog.Logger) *App {
	rankingCfg := cfg.RankingConfig
	if rankingCfg.Workers == 0 {
		rankingCfg = ranking.DefaultConfig()
	}
	transportCfg := broadcast.DefaultTransportConfig()
	if cfg.TransportConfig != nil {
		transportCfg = *cfg.TransportConfig
	}

	resolver := scope.NewResolver(scope.NewStoreLookups(store), clk)

	var authorizer broadcast.SubscribeAuthorizer = broadcast.AllowAll{}
	if cfg.StrictSubscribe {
		authorizer = topicauth.New(store, resolver)
	}

	hub := broadcast.NewHub(cfg.SendQueueSize, logger)
	broadcaster := broadcast.NewBroadcaster(hub, logger)
	transport := broadcast.NewTransport(hub, authorizer, transportCfg, logger)

	rankingService := ranking.New(store, broadcaster, rankingCfg, logger)
	problemService := problem.New(store, resolver, clk, ids, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		IDs:            ids,
		Hub:            hub,
		Broadcaster:    broadcaster,
		Transport:      transport,
		Authorizer:     authorizer,
		Resolver:       resolver,
		AuthService:    auth.New(store, clk, ids, cfg.AuthConfig, logger),
		UserService:    user.New(store, resolver, clk, logger),
		TeamService:    team.New(store, resolver, clk, ids, logger),
		ProblemService: problemService,
		ContestService: contest.New(store, resolver, rankingService, clk, ids, logger),
		JudgeService:   judge.New(store, resolver, problemService, broadcaster, rankingService, clk, ids, logger),
		ChatService:    chat.New(store, resolver, broadcaster, clk, ids, logger),
		RankingService: rankingService,
		logger:         logger,
	}
}

// Handler builds the HTTP API for the app
func (a *App) Handler() http.Handler {
	cfg := api.RouterConfig{
		Logger:         a.logger,
		Clock:          a.Clock,
		AuthService:    a.AuthService,
		UserService:    a.UserService,
		TeamService:    a.TeamService,
		ProblemService: a.ProblemService,
		ContestService: a.ContestService,
		JudgeService:   a.JudgeService,
		ChatService:    a.ChatService,
		Hub:            a.Hub,
		Transport:      a.Transport,
	}
	if pinger, ok := a.Storage.(handler.Pinger); ok {
		cfg.StoragePinger = pinger
	}
	return api.NewRouter(cfg)
}

// Bootstrap ensures a superuser account exists so a fresh deployment can be administered
func (a *App) Bootstrap(ctx context.Context, username, password string) error {
	u, err := a.AuthService.EnsureUser(ctx, username, password, model.SystemRoleSu)
	if err != nil {
		return err
	}
	a.logger.Info("bootstrap superuser ready", slog.String("user_id", string(u.ID)))
	return nil
}

// Close disconnects every client and releases the storage backend
func (a *App) Close() error {
	a.Hub.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
