package pool

import (
	"context"
	"database/sql"
	"testing"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/database"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupPoolStore(t *testing.T) (*database.Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := database.NewServiceFromDB(db)
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

func newPoolUser(t *testing.T, s store.PoolStore, username string, role models.Role, parentId string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), store.CreateUserParams{
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

func creditBalance(t *testing.T, s store.PoolStore, userId, amount string) {
	t.Helper()
	_, err := s.AdjustUserBalance(context.Background(), store.AdjustBalanceParams{
		UserId:    userId,
		Amount:    decimal.RequireFromString(amount),
		Direction: store.BalanceAdd,
	})
	if err != nil {
		t.Fatalf("Failed to credit user %s: %v", userId, err)
	}
}

func seedPoolSlate(t *testing.T, s store.PoolStore) {
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
	if err := s.ReplaceSlate(context.Background(), matches); err != nil {
		t.Fatalf("Failed to seed slate: %v", err)
	}
}

func seedPoolSettings(t *testing.T, s store.PoolStore, price string, blocked bool) {
	t.Helper()
	err := s.UpdateSettings(context.Background(), models.AppSettings{
		PixKey:         "admin@pix",
		BettingBlocked: blocked,
		TicketPrice:    decimal.RequireFromString(price),
		JackpotPrize:   decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
}

func fullPicks() []models.Pick {
	picks := make([]models.Pick, models.SlateSize)
	for i := range picks {
		picks[i] = models.PickHome
	}
	return picks
}

// sellTicket inserts a paid ticket with a fixed cost, bypassing issuance, for
// settlement and raffle scenarios.
func sellTicket(t *testing.T, s store.PoolStore, user *models.User, cost string, status models.TicketStatus) *models.Ticket {
	t.Helper()
	ticket, err := s.PurchaseTicket(context.Background(), store.PurchaseTicketParams{
		Ticket: models.Ticket{
			UserId:         user.Id,
			UserName:       user.Name,
			Picks:          fullPicks(),
			MatchInfo:      make([]models.MatchPair, models.SlateSize),
			Cost:           decimal.RequireFromString(cost),
			PotentialPrize: decimal.NewFromInt(1000),
			ParentId:       user.ParentId,
		},
	})
	if err != nil {
		t.Fatalf("Failed to insert ticket: %v", err)
	}
	if status != models.TicketPending {
		// WON and LOST are only reachable through VALIDATED.
		if status == models.TicketWon || status == models.TicketLost {
			if _, err := s.UpdateTicketStatus(context.Background(), ticket.Id, models.TicketValidated); err != nil {
				t.Fatalf("Failed to validate ticket: %v", err)
			}
		}
		ticket, err = s.UpdateTicketStatus(context.Background(), ticket.Id, status)
		if err != nil {
			t.Fatalf("Failed to set ticket status: %v", err)
		}
	}
	return ticket
}
