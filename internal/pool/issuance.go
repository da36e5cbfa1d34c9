package pool

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"go.uber.org/zap"
)

// Issuance creates tickets from completed pick sets.
type Issuance struct {
	store store.PoolStore
}

func NewIssuance(s store.PoolStore) *Issuance {
	return &Issuance{store: s}
}

// PlaceTicket issues a ticket for the given user. The pick set must cover
// the whole slate; the UI disables submission until it does, but the check
// is repeated here. Cost, prize and team names are snapshotted from the
// current settings and slate, so later edits never alter an issued ticket.
// When the user's balance covers the ticket price the ticket is validated
// and paid in one atomic store operation; otherwise it stays PENDING for
// manual validation.
func (i *Issuance) PlaceTicket(ctx context.Context, userId string, picks []models.Pick) (*models.Ticket, error) {
	settings, err := i.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.BettingBlocked {
		return nil, store.ErrBettingClosed
	}

	if err := validatePicks(picks); err != nil {
		return nil, err
	}

	user, err := i.store.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	matches, err := i.store.GetMatches(ctx)
	if err != nil {
		return nil, err
	}
	if len(matches) != models.SlateSize {
		return nil, fmt.Errorf("slate has %d matches, expected %d", len(matches), models.SlateSize)
	}

	matchInfo := make([]models.MatchPair, len(matches))
	for idx, match := range matches {
		matchInfo[idx] = models.MatchPair{Home: match.HomeTeam, Away: match.AwayTeam}
	}

	autoPay := user.Balance.GreaterThanOrEqual(settings.TicketPrice)

	ticket, err := i.store.PurchaseTicket(ctx, store.PurchaseTicketParams{
		Ticket: models.Ticket{
			UserId:         user.Id,
			UserName:       user.Name,
			Picks:          picks,
			MatchInfo:      matchInfo,
			Cost:           settings.TicketPrice,
			PotentialPrize: settings.JackpotPrize,
			ParentId:       user.ParentId,
		},
		AutoPay: autoPay,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Ticket placed",
		zap.String("ticket_id", ticket.Id),
		zap.String("user_id", user.Id),
		zap.Bool("auto_pay", autoPay),
		zap.String("status", string(ticket.Status)))

	return ticket, nil
}

// validatePicks requires exactly one valid pick per slate position.
func validatePicks(picks []models.Pick) error {
	if len(picks) != models.SlateSize {
		return fmt.Errorf("%w: got %d picks", store.ErrIncompleteSelection, len(picks))
	}
	for idx, pick := range picks {
		if !pick.Valid() {
			return fmt.Errorf("%w: invalid pick %q at position %d", store.ErrIncompleteSelection, pick, idx)
		}
	}
	return nil
}
