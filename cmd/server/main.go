package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/api"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/common"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/config"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/suggest"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Rodada Dgrau API server",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env))

	db, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	tokens, err := auth.NewTokens(cfg.Auth)
	if err != nil {
		zap.L().Fatal("Failed to initialize token signer", zap.Error(err))
	}

	hub := feed.NewHub()
	go hub.Run()

	oracle := suggest.NewClient(cfg.Suggest)

	server := api.NewServer(db, tokens, hub, oracle)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Server.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
		if err := server.Shutdown(); err != nil {
			zap.L().Error("Failed to shut down server cleanly", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			zap.L().Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}

	zap.L().Info("Server stopped")
}
