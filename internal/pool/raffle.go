package pool

import (
	"context"
	"math/rand/v2"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"go.uber.org/zap"
)

// Raffle draws one prize ticket from the live pool.
type Raffle struct {
	store store.PoolStore
	// intn is swappable for deterministic tests; defaults to rand.IntN.
	intn func(n int) int
}

func NewRaffle(s store.PoolStore) *Raffle {
	return &Raffle{store: s, intn: rand.IntN}
}

// DrawWinner picks one ticket uniformly at random among VALIDATED and WON
// tickets. Each call is an independent draw: winners stay eligible, and
// nothing is persisted — the result is display-only.
func (r *Raffle) DrawWinner(ctx context.Context) (*models.Ticket, error) {
	tickets, err := r.store.GetTickets(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []models.Ticket
	for _, ticket := range tickets {
		if ticket.Status == models.TicketValidated || ticket.Status == models.TicketWon {
			eligible = append(eligible, ticket)
		}
	}
	if len(eligible) == 0 {
		return nil, store.ErrNoEligibleTickets
	}

	winner := eligible[r.intn(len(eligible))]

	zap.L().Info("Raffle drawn",
		zap.String("ticket_id", winner.Id),
		zap.String("user_name", winner.UserName),
		zap.Int("eligible", len(eligible)))

	return &winner, nil
}
