package database

import (
	"context"
	"errors"
	"testing"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
)

func testTicket(user *models.User) models.Ticket {
	picks := make([]models.Pick, models.SlateSize)
	info := make([]models.MatchPair, models.SlateSize)
	for i := range picks {
		picks[i] = models.PickHome
		info[i] = models.MatchPair{Home: "Home", Away: "Away"}
	}
	return models.Ticket{
		UserId:         user.Id,
		UserName:       user.Name,
		Picks:          picks,
		MatchInfo:      info,
		Cost:           decimal.NewFromInt(10),
		PotentialPrize: decimal.NewFromInt(1000),
		ParentId:       user.ParentId,
	}
}

func TestPurchaseTicket_AutoPayDebitsAndValidates(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, service, "alice", models.RoleClient, "")
	creditTestUser(t, service, user.Id, "25")

	ticket, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{
		Ticket:  testTicket(user),
		AutoPay: true,
	})
	if err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}

	if ticket.Status != models.TicketValidated {
		t.Errorf("Expected VALIDATED ticket, got %s", ticket.Status)
	}

	buyer, err := service.GetUserById(ctx, user.Id)
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	if !buyer.Balance.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected balance 15 after debit, got %s", buyer.Balance.String())
	}
}

func TestPurchaseTicket_AutoPayInsufficientFallsBackToPending(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, service, "alice", models.RoleClient, "")
	creditTestUser(t, service, user.Id, "5")

	// Caller decided AutoPay before the balance dropped below the cost; the
	// store must never validate without a matching debit.
	ticket, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{
		Ticket:  testTicket(user),
		AutoPay: true,
	})
	if err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}

	if ticket.Status != models.TicketPending {
		t.Errorf("Expected PENDING ticket, got %s", ticket.Status)
	}

	buyer, err := service.GetUserById(ctx, user.Id)
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	if !buyer.Balance.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected untouched balance 5, got %s", buyer.Balance.String())
	}
}

func TestPurchaseTicket_NoAutoPayStaysPending(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, service, "alice", models.RoleClient, "")

	ticket, err := service.PurchaseTicket(context.Background(), store.PurchaseTicketParams{
		Ticket: testTicket(user),
	})
	if err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}
	if ticket.Status != models.TicketPending {
		t.Errorf("Expected PENDING ticket, got %s", ticket.Status)
	}
}

func TestPurchaseTicket_RoundTripsSnapshot(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, service, "alice", models.RoleClient, "")
	want := testTicket(user)
	want.Picks[3] = models.PickDraw
	want.Picks[7] = models.PickAway
	want.MatchInfo[0] = models.MatchPair{Home: "Flamengo", Away: "Palmeiras"}

	created, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{Ticket: want})
	if err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}

	got, err := service.GetTicketById(ctx, created.Id)
	if err != nil {
		t.Fatalf("GetTicketById failed: %v", err)
	}

	if len(got.Picks) != models.SlateSize {
		t.Fatalf("Expected %d picks, got %d", models.SlateSize, len(got.Picks))
	}
	if got.Picks[3] != models.PickDraw || got.Picks[7] != models.PickAway {
		t.Errorf("Picks did not round-trip: %v", got.Picks)
	}
	if got.MatchInfo[0] != (models.MatchPair{Home: "Flamengo", Away: "Palmeiras"}) {
		t.Errorf("Match snapshot did not round-trip: %+v", got.MatchInfo[0])
	}
	if !got.Cost.Equal(want.Cost) || !got.PotentialPrize.Equal(want.PotentialPrize) {
		t.Errorf("Cost/prize did not round-trip: %s / %s", got.Cost.String(), got.PotentialPrize.String())
	}
}

func TestUpdateTicketStatus_TerminalIsFinal(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, service, "alice", models.RoleClient, "")
	ticket, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{Ticket: testTicket(user)})
	if err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}

	if _, err := service.UpdateTicketStatus(ctx, ticket.Id, models.TicketValidated); err != nil {
		t.Fatalf("PENDING -> VALIDATED failed: %v", err)
	}
	if _, err := service.UpdateTicketStatus(ctx, ticket.Id, models.TicketWon); err != nil {
		t.Fatalf("VALIDATED -> WON failed: %v", err)
	}

	_, err = service.UpdateTicketStatus(ctx, ticket.Id, models.TicketLost)
	if !errors.Is(err, store.ErrAlreadyResolved) {
		t.Errorf("Expected ErrAlreadyResolved on terminal ticket, got %v", err)
	}

	final, err := service.GetTicketById(ctx, ticket.Id)
	if err != nil {
		t.Fatalf("GetTicketById failed: %v", err)
	}
	if final.Status != models.TicketWon {
		t.Errorf("Expected status WON preserved, got %s", final.Status)
	}
}

func TestUpdateTicketStatus_RejectsOffGraphTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.TicketStatus
		to   models.TicketStatus
	}{
		{"PendingToWon", models.TicketPending, models.TicketWon},
		{"PendingToLost", models.TicketPending, models.TicketLost},
		{"PendingToPending", models.TicketPending, models.TicketPending},
		{"ValidatedToPending", models.TicketValidated, models.TicketPending},
		{"ValidatedToValidated", models.TicketValidated, models.TicketValidated},
		{"PendingToUnknownValue", models.TicketPending, models.TicketStatus("BANANA")},
		{"ValidatedToUnknownValue", models.TicketValidated, models.TicketStatus("BANANA")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, cleanup := setupTestDB(t)
			defer cleanup()
			ctx := context.Background()

			user := createTestUser(t, service, "alice", models.RoleClient, "")
			ticket, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{Ticket: testTicket(user)})
			if err != nil {
				t.Fatalf("PurchaseTicket failed: %v", err)
			}
			if tc.from == models.TicketValidated {
				if _, err := service.UpdateTicketStatus(ctx, ticket.Id, models.TicketValidated); err != nil {
					t.Fatalf("PENDING -> VALIDATED failed: %v", err)
				}
			}

			_, err = service.UpdateTicketStatus(ctx, ticket.Id, tc.to)
			if !errors.Is(err, store.ErrInvalidTransition) {
				t.Errorf("Expected ErrInvalidTransition for %s -> %s, got %v", tc.from, tc.to, err)
			}

			after, err := service.GetTicketById(ctx, ticket.Id)
			if err != nil {
				t.Fatalf("GetTicketById failed: %v", err)
			}
			if after.Status != tc.from {
				t.Errorf("Expected status %s untouched, got %s", tc.from, after.Status)
			}
		})
	}
}

func TestUpdateTicketStatus_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.UpdateTicketStatus(context.Background(), "MISSING123", models.TicketValidated)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetTicketsByParent_ScopesToBookie(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	bookie := createTestUser(t, service, "bookie", models.RoleBookie, "")
	client := createTestUser(t, service, "client", models.RoleClient, bookie.Id)
	direct := createTestUser(t, service, "direct", models.RoleClient, "")

	for _, u := range []*models.User{client, direct} {
		if _, err := service.PurchaseTicket(ctx, store.PurchaseTicketParams{Ticket: testTicket(u)}); err != nil {
			t.Fatalf("PurchaseTicket failed: %v", err)
		}
	}

	scoped, err := service.GetTicketsByParent(ctx, bookie.Id)
	if err != nil {
		t.Fatalf("GetTicketsByParent failed: %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("Expected 1 ticket for bookie, got %d", len(scoped))
	}
	if scoped[0].UserId != client.Id {
		t.Errorf("Expected client's ticket, got user %s", scoped[0].UserId)
	}
}
