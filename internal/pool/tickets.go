package pool

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"
)

// Tickets exposes ticket listing and status transitions with the role gate
// applied.
type Tickets struct {
	store store.PoolStore
}

func NewTickets(s store.PoolStore) *Tickets {
	return &Tickets{store: s}
}

// Transition moves a ticket to a new status. Admins may adjudicate any
// ticket; bookies may only validate pending tickets they sold. The store
// enforces the lifecycle graph: terminal tickets fail with
// ErrAlreadyResolved, off-graph edges and unknown targets with
// ErrInvalidTransition.
func (t *Tickets) Transition(ctx context.Context, actor *models.User, ticketId string, to models.TicketStatus) (*models.Ticket, error) {
	ticket, err := t.store.GetTicketById(ctx, ticketId)
	if err != nil {
		return nil, err
	}
	if err := CanTransitionTicket(actor, ticket, to); err != nil {
		return nil, err
	}
	return t.store.UpdateTicketStatus(ctx, ticketId, to)
}

// TicketsFor lists tickets scoped to the actor: admins see all, bookies see
// tickets sold through them, clients see their own.
func (t *Tickets) TicketsFor(ctx context.Context, actor *models.User) ([]models.Ticket, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return t.store.GetTickets(ctx)
	case models.RoleBookie:
		return t.store.GetTicketsByParent(ctx, actor.Id)
	case models.RoleClient:
		return t.store.GetTicketsByUser(ctx, actor.Id)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// OwnTickets lists the actor's purchase history regardless of role.
func (t *Tickets) OwnTickets(ctx context.Context, actor *models.User) ([]models.Ticket, error) {
	return t.store.GetTicketsByUser(ctx, actor.Id)
}

// Delete removes a ticket record entirely. Admin only; no balance is
// refunded, cancellation with refund semantics goes through Transition.
func (t *Tickets) Delete(ctx context.Context, actor *models.User, ticketId string) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins delete tickets", store.ErrUnauthorized)
	}
	return t.store.DeleteTicket(ctx, ticketId)
}
