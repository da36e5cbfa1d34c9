package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewServiceFromDB(db)
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	}
	return service, cleanup
}

func createTestUser(t *testing.T, service *Service, username string, role models.Role, parentId string) *models.User {
	t.Helper()
	user, err := service.CreateUser(context.Background(), store.CreateUserParams{
		Name:         "Test " + username,
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		ParentId:     parentId,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func creditTestUser(t *testing.T, service *Service, userId string, amount string) {
	t.Helper()
	_, err := service.AdjustUserBalance(context.Background(), store.AdjustBalanceParams{
		UserId:    userId,
		Amount:    decimal.RequireFromString(amount),
		Direction: store.BalanceAdd,
	})
	if err != nil {
		t.Fatalf("Failed to credit user %s: %v", userId, err)
	}
}

func seedTestSlate(t *testing.T, service *Service) []models.Match {
	t.Helper()
	matches := make([]models.Match, models.SlateSize)
	for i := range matches {
		matches[i] = models.Match{
			League:   "Test League",
			HomeTeam: "Home",
			AwayTeam: "Away",
			Date:     "Sun 16:00",
		}
	}
	if err := service.ReplaceSlate(context.Background(), matches); err != nil {
		t.Fatalf("Failed to seed slate: %v", err)
	}

	seeded, err := service.GetMatches(context.Background())
	if err != nil {
		t.Fatalf("Failed to read seeded slate: %v", err)
	}
	return seeded
}
