package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
)

func TestAdjustBalance_RejectsNonPositiveAmounts(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()
	ctx := context.Background()

	admin := newPoolUser(t, s, "admin", models.RoleAdmin, "")
	client := newPoolUser(t, s, "client", models.RoleClient, "")

	ledger := NewLedger(s)
	for _, amount := range []string{"0", "-5"} {
		_, err := ledger.AdjustBalance(ctx, admin, client.Id, decimal.RequireFromString(amount), store.BalanceAdd)
		if !errors.Is(err, store.ErrInvalidAmount) {
			t.Errorf("Amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestAdjustBalance_BookieCreditFeedsDepositCounter(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()
	ctx := context.Background()

	bookie := newPoolUser(t, s, "bookie", models.RoleBookie, "")
	client := newPoolUser(t, s, "client", models.RoleClient, bookie.Id)

	ledger := NewLedger(s)
	updated, err := ledger.AdjustBalance(ctx, bookie, client.Id, decimal.NewFromInt(50), store.BalanceAdd)
	if err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}
	if !updated.TotalDepositsByBookie.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected deposit counter 50, got %s", updated.TotalDepositsByBookie.String())
	}

	// A bookie debit must not shrink the counter; it tracks cumulative
	// deposits, not net balance.
	updated, err = ledger.AdjustBalance(ctx, bookie, client.Id, decimal.NewFromInt(20), store.BalanceRemove)
	if err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}
	if !updated.TotalDepositsByBookie.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected deposit counter unchanged at 50, got %s", updated.TotalDepositsByBookie.String())
	}
}

func TestAdjustBalance_AdminCreditSkipsDepositCounter(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()

	admin := newPoolUser(t, s, "admin", models.RoleAdmin, "")
	client := newPoolUser(t, s, "client", models.RoleClient, "")

	updated, err := NewLedger(s).AdjustBalance(context.Background(), admin, client.Id, decimal.NewFromInt(50), store.BalanceAdd)
	if err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}
	if !updated.TotalDepositsByBookie.Equal(decimal.Zero) {
		t.Errorf("Expected deposit counter untouched, got %s", updated.TotalDepositsByBookie.String())
	}
}

func TestAdjustBalance_BookieCannotReachForeignClient(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()

	bookie := newPoolUser(t, s, "bookie", models.RoleBookie, "")
	foreign := newPoolUser(t, s, "foreign", models.RoleClient, "")

	_, err := NewLedger(s).AdjustBalance(context.Background(), bookie, foreign.Id, decimal.NewFromInt(10), store.BalanceAdd)
	if !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestRequestTopUp_RoutesToParent(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()
	ctx := context.Background()

	bookie := newPoolUser(t, s, "bookie", models.RoleBookie, "")
	client := newPoolUser(t, s, "client", models.RoleClient, bookie.Id)

	ledger := NewLedger(s)
	request, err := ledger.RequestTopUp(ctx, client, decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("RequestTopUp failed: %v", err)
	}
	if request.ParentId != bookie.Id {
		t.Errorf("Expected request routed to bookie %s, got %q", bookie.Id, request.ParentId)
	}

	if _, err := ledger.RequestTopUp(ctx, client, decimal.Zero); !errors.Is(err, store.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero top-up, got %v", err)
	}
}

func TestApproveBalanceRequest_RoleScoping(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()
	ctx := context.Background()

	admin := newPoolUser(t, s, "admin", models.RoleAdmin, "")
	bookie := newPoolUser(t, s, "bookie", models.RoleBookie, "")
	client := newPoolUser(t, s, "client", models.RoleClient, bookie.Id)
	direct := newPoolUser(t, s, "direct", models.RoleClient, "")

	ledger := NewLedger(s)

	parented, err := ledger.RequestTopUp(ctx, client, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("RequestTopUp failed: %v", err)
	}
	directReq, err := ledger.RequestTopUp(ctx, direct, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("RequestTopUp failed: %v", err)
	}

	// The admin handles direct requests only, the bookie its own clients'.
	if _, err := ledger.ApproveBalanceRequest(ctx, admin, parented.Id); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected admin blocked from parented request, got %v", err)
	}
	if _, err := ledger.ApproveBalanceRequest(ctx, bookie, directReq.Id); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected bookie blocked from direct request, got %v", err)
	}

	if _, err := ledger.ApproveBalanceRequest(ctx, bookie, parented.Id); err != nil {
		t.Errorf("Expected bookie approval to succeed, got %v", err)
	}
	if _, err := ledger.ApproveBalanceRequest(ctx, admin, directReq.Id); err != nil {
		t.Errorf("Expected admin approval to succeed, got %v", err)
	}

	// Double approval must not credit twice.
	if _, err := ledger.ApproveBalanceRequest(ctx, bookie, parented.Id); !errors.Is(err, store.ErrAlreadyResolved) {
		t.Errorf("Expected ErrAlreadyResolved, got %v", err)
	}
}

func TestRequestsFor_Scoping(t *testing.T) {
	s, cleanup := setupPoolStore(t)
	defer cleanup()
	ctx := context.Background()

	admin := newPoolUser(t, s, "admin", models.RoleAdmin, "")
	bookie := newPoolUser(t, s, "bookie", models.RoleBookie, "")
	client := newPoolUser(t, s, "client", models.RoleClient, bookie.Id)
	direct := newPoolUser(t, s, "direct", models.RoleClient, "")

	ledger := NewLedger(s)
	for _, u := range []*models.User{client, direct} {
		if _, err := ledger.RequestTopUp(ctx, u, decimal.NewFromInt(5)); err != nil {
			t.Fatalf("RequestTopUp failed: %v", err)
		}
	}

	adminView, err := ledger.RequestsFor(ctx, admin)
	if err != nil {
		t.Fatalf("RequestsFor(admin) failed: %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("Expected admin to see 2 requests, got %d", len(adminView))
	}

	bookieView, err := ledger.RequestsFor(ctx, bookie)
	if err != nil {
		t.Fatalf("RequestsFor(bookie) failed: %v", err)
	}
	if len(bookieView) != 1 || bookieView[0].UserId != client.Id {
		t.Errorf("Expected bookie to see only its client's request, got %d", len(bookieView))
	}

	clientView, err := ledger.RequestsFor(ctx, client)
	if err != nil {
		t.Fatalf("RequestsFor(client) failed: %v", err)
	}
	if len(clientView) != 1 || clientView[0].UserId != client.Id {
		t.Errorf("Expected client to see own request, got %d", len(clientView))
	}
}
