package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/judgecore/internal/api"
	"github.com/mcoot/judgecore/internal/config"
	"github.com/mcoot/judgecore/internal/factory"
	"github.com/mcoot/judgecore/internal/services/auth"
	"github.com/mcoot/judgecore/internal/services/ranking"
	redisstorage "github.com/mcoot/judgecore/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	factoryCfg := factory.Config{
		AuthConfig: auth.Config{
			Secret:   cfg.JWTSecret,
			TokenTTL: cfg.TokenTTL,
		},
		Logger:          logger,
		StorageType:     cfg.StorageType,
		SendQueueSize:   cfg.SendQueueSize,
		StrictSubscribe: cfg.StrictSubscribe,
		RankingConfig:   ranking.Config{Workers: cfg.RankingWorkers},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}()

	if !cfg.StrictSubscribe {
		logger.Warn("subscriptions are not checked against policy; set STRICT_SUBSCRIBE=true to enable")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.BootstrapSu != "" {
		username, password, _ := cfg.BootstrapCredentials()
		if err := app.Bootstrap(ctx, username, password); err != nil {
			return err
		}
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout
	server := api.NewServer(app.Handler(), serverConfig, logger)
	server.OnShutdown(app.Hub.CloseAll)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
