package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/pool"

	"github.com/gofiber/fiber/v2"
)

// handleSettlementReport returns the full since-inception settlement: one
// line per bookie plus direct sales volume.
func (s *Server) handleSettlementReport(c *fiber.Ctx) error {
	if err := pool.CanViewSettlement(actingUser(c)); err != nil {
		return respondError(c, err)
	}
	report, err := s.settlement.Report(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// handleSettlementLine returns the acting bookie's own settlement line.
func (s *Server) handleSettlementLine(c *fiber.Ctx) error {
	line, err := s.settlement.BookieLine(c.UserContext(), actingUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// handleSuggest returns one oracle pick per slate position. The oracle never
// fails: when the upstream is unset or down a home-win slate comes back.
func (s *Server) handleSuggest(c *fiber.Ctx) error {
	matches, err := s.store.GetMatches(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	picks := s.oracle.Picks(c.UserContext(), matches)
	return c.JSON(fiber.Map{"picks": picks})
}

// handleRaffle draws a uniformly random winner among live paid tickets.
// Nothing is persisted; the draw is announced out of band.
func (s *Server) handleRaffle(c *fiber.Ctx) error {
	winner, err := s.raffle.DrawWinner(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(winner)
}
