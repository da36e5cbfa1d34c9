package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"

	"github.com/gofiber/fiber/v2"
)

type placeTicketRequest struct {
	Picks []models.Pick `json:"picks"`
}

// handlePlaceTicket buys a ticket for the acting user. Payment is automatic
// when the balance covers the current ticket price; otherwise the ticket
// stays PENDING until a bookie or admin validates it.
func (s *Server) handlePlaceTicket(c *fiber.Ctx) error {
	user := actingUser(c)
	var req placeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ticket, err := s.issuance.PlaceTicket(c.UserContext(), user.Id, req.Picks)
	if err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityTicket, feed.ActionInsert, ticket.Id)
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// handleListTickets lists tickets visible to the actor: admins see all,
// bookies the tickets they sold, clients their own.
func (s *Server) handleListTickets(c *fiber.Ctx) error {
	tickets, err := s.tickets.TicketsFor(c.UserContext(), actingUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tickets)
}

// handleOwnTickets lists the actor's own purchase history regardless of
// role, for the bookie and admin dashboards.
func (s *Server) handleOwnTickets(c *fiber.Ctx) error {
	tickets, err := s.tickets.OwnTickets(c.UserContext(), actingUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tickets)
}

type ticketStatusRequest struct {
	Status models.TicketStatus `json:"status"`
}

func (s *Server) handleTicketStatus(c *fiber.Ctx) error {
	var req ticketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ticket, err := s.tickets.Transition(c.UserContext(), actingUser(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityTicket, feed.ActionUpdate, ticket.Id)
	return c.JSON(ticket)
}

func (s *Server) handleDeleteTicket(c *fiber.Ctx) error {
	ticketId := c.Params("id")
	if err := s.tickets.Delete(c.UserContext(), actingUser(c), ticketId); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityTicket, feed.ActionDelete, ticketId)
	return c.SendStatus(fiber.StatusNoContent)
}
