package pool

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
)

// Ledger handles every manual balance mutation: admin/bookie adjustments and
// the top-up request lifecycle. The automatic ticket deduction lives in the
// store's PurchaseTicket path.
type Ledger struct {
	store store.PoolStore
}

func NewLedger(s store.PoolStore) *Ledger {
	return &Ledger{store: s}
}

// AdjustBalance applies a manual ADD or REMOVE on the target's balance.
// An ADD performed by a bookie on their own client also counts toward the
// client's bookie-deposit total, which settlement passes through to the
// admin. REMOVE never drives a balance negative; the store rejects the whole
// operation instead of clamping.
func (l *Ledger) AdjustBalance(ctx context.Context, actor *models.User, targetId string, amount decimal.Decimal, direction store.BalanceDirection) (*models.User, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	target, err := l.store.GetUserById(ctx, targetId)
	if err != nil {
		return nil, err
	}
	if err := CanAdjustBalance(actor, target); err != nil {
		return nil, err
	}

	return l.store.AdjustUserBalance(ctx, store.AdjustBalanceParams{
		UserId:        target.Id,
		Amount:        amount,
		Direction:     direction,
		BookieDeposit: actor.Role == models.RoleBookie && direction == store.BalanceAdd,
	})
}

// RequestTopUp opens a PENDING balance request on behalf of the actor.
func (l *Ledger) RequestTopUp(ctx context.Context, actor *models.User, amount decimal.Decimal) (*models.BalanceRequest, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return l.store.CreateBalanceRequest(ctx, actor.Id, amount)
}

// ApproveBalanceRequest resolves a pending request and credits the
// requester. Only the first resolution of a request can ever credit;
// a repeat fails with ErrAlreadyResolved.
func (l *Ledger) ApproveBalanceRequest(ctx context.Context, actor *models.User, requestId string) (*models.BalanceRequest, error) {
	return l.resolve(ctx, actor, requestId, true)
}

// RejectBalanceRequest resolves a pending request with no balance change.
func (l *Ledger) RejectBalanceRequest(ctx context.Context, actor *models.User, requestId string) (*models.BalanceRequest, error) {
	return l.resolve(ctx, actor, requestId, false)
}

func (l *Ledger) resolve(ctx context.Context, actor *models.User, requestId string, approve bool) (*models.BalanceRequest, error) {
	request, err := l.store.GetBalanceRequestById(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if err := CanResolveRequest(actor, request); err != nil {
		return nil, err
	}
	return l.store.ResolveBalanceRequest(ctx, requestId, approve)
}

// RequestsFor lists the balance requests the actor is responsible for:
// admins see direct (parentless) requests plus everything, bookies see their
// own clients', clients see their own.
func (l *Ledger) RequestsFor(ctx context.Context, actor *models.User) ([]models.BalanceRequest, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return l.store.GetBalanceRequests(ctx)
	case models.RoleBookie:
		return l.store.GetBalanceRequestsByParent(ctx, actor.Id)
	case models.RoleClient:
		return l.store.GetBalanceRequestsByUser(ctx, actor.Id)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", store.ErrInvalidAmount, amount.String())
	}
	return nil
}
