package main

import (
	"context"
	"flag"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/common"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/config"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"go.uber.org/zap"
)

// adduser registers an account from the command line, bypassing the API role
// gate. Meant for operators bootstrapping bookies before launch.
func main() {
	name := flag.String("name", "", "Display name for the new user")
	username := flag.String("username", "", "Login username (case-insensitive, must be unique)")
	password := flag.String("password", "", "Initial password")
	role := flag.String("role", string(models.RoleClient), "Role: ADMIN, BOOKIE or CLIENT")
	parent := flag.String("parent", "", "Bookie user id this client belongs to (clients only)")
	pixKey := flag.String("pix", "", "PIX payment key (bookies)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if *name == "" || *username == "" || *password == "" {
		zap.L().Fatal("Flags -name, -username and -password are required")
	}
	userRole := models.Role(*role)
	if !userRole.Valid() {
		zap.L().Fatal("Invalid role", zap.String("role", *role))
	}

	ctx := context.Background()

	db, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if *parent != "" {
		parentUser, err := db.GetUserById(ctx, *parent)
		if err != nil {
			zap.L().Fatal("Parent lookup failed", zap.String("parent_id", *parent), zap.Error(err))
		}
		if parentUser.Role != models.RoleBookie {
			zap.L().Fatal("Parent is not a bookie", zap.String("parent_id", *parent))
		}
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		zap.L().Fatal("Failed to hash password", zap.Error(err))
	}

	user, err := db.CreateUser(ctx, store.CreateUserParams{
		Name:         *name,
		Username:     *username,
		PasswordHash: hash,
		Role:         userRole,
		ParentId:     *parent,
		PixKey:       *pixKey,
	})
	if err != nil {
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	zap.L().Info("User created",
		zap.String("user_id", user.Id),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
}
