package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/common"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/config"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/database"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// setup prepares a fresh installation: schema, admin account, default
// settings and the opening slate. Safe to re-run; existing records are left
// alone except the slate, which is replaced when -slate is given.
func main() {
	slateFile := flag.String("slate", "", "Path to a slate.yaml to (re)load the 12-match fixture list")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	db, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		zap.L().Fatal("Failed to create schema", zap.Error(err))
	}
	zap.L().Info("Schema ready")

	if err := seedAdmin(ctx, db); err != nil {
		zap.L().Fatal("Failed to seed admin account", zap.Error(err))
	}

	if err := seedSettings(ctx, db); err != nil {
		zap.L().Fatal("Failed to seed settings", zap.Error(err))
	}

	if *slateFile != "" {
		if err := loadSlate(ctx, db, *slateFile); err != nil {
			zap.L().Fatal("Failed to load slate", zap.Error(err))
		}
	}

	zap.L().Info("Setup complete")
}

// seedAdmin creates the admin account from ADMIN_NAME / ADMIN_USERNAME /
// ADMIN_PASSWORD. Skipped when the username already exists.
func seedAdmin(ctx context.Context, db *database.Service) error {
	name := os.Getenv("ADMIN_NAME")
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		zap.L().Warn("ADMIN_USERNAME or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	if _, err := db.GetUserByUsername(ctx, username); err == nil {
		zap.L().Info("Admin account already exists", zap.String("username", username))
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := db.CreateUser(ctx, store.CreateUserParams{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	zap.L().Info("Admin account created",
		zap.String("user_id", admin.Id),
		zap.String("username", admin.Username))
	return nil
}

// seedSettings writes the default settings row if none exists yet.
func seedSettings(ctx context.Context, db *database.Service) error {
	if _, err := db.GetSettings(ctx); err == nil {
		zap.L().Info("Settings already initialized")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	settings := models.AppSettings{
		PixKey:         os.Getenv("ADMIN_PIX_KEY"),
		BettingBlocked: false,
		TicketPrice:    decimal.NewFromInt(10),
		JackpotPrize:   decimal.NewFromInt(1000),
	}
	if err := db.UpdateSettings(ctx, settings); err != nil {
		return err
	}

	zap.L().Info("Default settings written",
		zap.String("ticket_price", settings.TicketPrice.String()),
		zap.String("jackpot_prize", settings.JackpotPrize.String()))
	return nil
}

// loadSlate replaces the fixture list with the contents of a slate.yaml.
func loadSlate(ctx context.Context, db *database.Service, slateFile string) error {
	matches, err := common.LoadSlateConfig(slateFile)
	if err != nil {
		return err
	}
	if err := db.ReplaceSlate(ctx, matches); err != nil {
		return err
	}
	zap.L().Info("Slate loaded", zap.String("file", slateFile), zap.Int("matches", len(matches)))
	return nil
}
