package pool

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
)

// CommissionRate is the bookie's cut of ticket sales volume. It applies to
// bet turnover only: bookie-sourced deposits pass through to the admin in
// full.
var CommissionRate = decimal.NewFromFloat(0.20)

// BookieLine is one bookie's row in the settlement report.
type BookieLine struct {
	BookieId      string          `json:"bookieId"`
	BookieName    string          `json:"bookieName"`
	TicketVolume  decimal.Decimal `json:"ticketVolume"`  // sum of ticket costs sold through this bookie
	DepositVolume decimal.Decimal `json:"depositVolume"` // sum of the bookie's clients' deposit counters
	GrossVolume   decimal.Decimal `json:"grossVolume"`   // ticket + deposit volume
	Commission    decimal.Decimal `json:"commission"`    // CommissionRate * TicketVolume
	AmountDue     decimal.Decimal `json:"amountDue"`     // GrossVolume - Commission
}

// Report is the full since-inception settlement picture. There is no period
// boundary or paid-out marker; the report is recomputed from current state
// on every call.
type Report struct {
	Bookies      []BookieLine    `json:"bookies"`
	DirectVolume decimal.Decimal `json:"directVolume"` // ticket costs with no bookie attached
	TotalDue     decimal.Decimal `json:"totalDue"`     // DirectVolume + sum of every AmountDue
}

// Settlement derives what each bookie owes the admin from current tickets
// and users. Pure read; nothing is persisted.
type Settlement struct {
	store store.PoolStore
}

func NewSettlement(s store.PoolStore) *Settlement {
	return &Settlement{store: s}
}

// Report computes the admin-facing settlement over all bookies plus direct
// sales.
func (s *Settlement) Report(ctx context.Context) (*Report, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.store.GetTickets(ctx)
	if err != nil {
		return nil, err
	}

	ticketVolume := make(map[string]decimal.Decimal)
	directVolume := decimal.Zero
	for _, ticket := range tickets {
		if ticket.ParentId == "" {
			directVolume = directVolume.Add(ticket.Cost)
			continue
		}
		ticketVolume[ticket.ParentId] = ticketVolume[ticket.ParentId].Add(ticket.Cost)
	}

	depositVolume := make(map[string]decimal.Decimal)
	for _, user := range users {
		if user.ParentId == "" {
			continue
		}
		depositVolume[user.ParentId] = depositVolume[user.ParentId].Add(user.TotalDepositsByBookie)
	}

	report := &Report{DirectVolume: directVolume, TotalDue: directVolume}
	for _, user := range users {
		if user.Role != models.RoleBookie {
			continue
		}
		line := settleBookie(user, ticketVolume[user.Id], depositVolume[user.Id])
		report.Bookies = append(report.Bookies, line)
		report.TotalDue = report.TotalDue.Add(line.AmountDue)
	}
	return report, nil
}

// BookieLine computes the settlement line for a single bookie, used by the
// bookie's own dashboard.
func (s *Settlement) BookieLine(ctx context.Context, actor *models.User) (*BookieLine, error) {
	if actor.Role != models.RoleBookie {
		return nil, fmt.Errorf("%w: settlement lines exist only for bookies", store.ErrUnauthorized)
	}

	tickets, err := s.store.GetTicketsByParent(ctx, actor.Id)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.GetUsersByParent(ctx, actor.Id)
	if err != nil {
		return nil, err
	}

	ticketVolume := decimal.Zero
	for _, ticket := range tickets {
		ticketVolume = ticketVolume.Add(ticket.Cost)
	}
	depositVolume := decimal.Zero
	for _, client := range clients {
		depositVolume = depositVolume.Add(client.TotalDepositsByBookie)
	}

	line := settleBookie(*actor, ticketVolume, depositVolume)
	return &line, nil
}

func settleBookie(bookie models.User, ticketVolume, depositVolume decimal.Decimal) BookieLine {
	gross := ticketVolume.Add(depositVolume)
	commission := ticketVolume.Mul(CommissionRate)
	return BookieLine{
		BookieId:      bookie.Id,
		BookieName:    bookie.Name,
		TicketVolume:  ticketVolume,
		DepositVolume: depositVolume,
		GrossVolume:   gross,
		Commission:    commission,
		AmountDue:     gross.Sub(commission),
	}
}
