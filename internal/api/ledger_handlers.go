package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type topUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// handleCreateBalanceRequest opens a top-up request for the acting user,
// routed to their bookie when they have one, otherwise to the admin.
func (s *Server) handleCreateBalanceRequest(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	request, err := s.ledger.RequestTopUp(c.UserContext(), actingUser(c), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityBalanceRequest, feed.ActionInsert, request.Id)
	return c.Status(fiber.StatusCreated).JSON(request)
}

// handleListBalanceRequests lists requests scoped to the actor: admins see
// all, bookies those of their clients, clients their own.
func (s *Server) handleListBalanceRequests(c *fiber.Ctx) error {
	requests, err := s.ledger.RequestsFor(c.UserContext(), actingUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

type resolveRequest struct {
	Status models.RequestStatus `json:"status"`
}

// handleResolveBalanceRequest approves or rejects a pending top-up. Approval
// credits the requester atomically; a request can only be resolved once.
func (s *Server) handleResolveBalanceRequest(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	actor := actingUser(c)
	requestId := c.Params("id")

	var request *models.BalanceRequest
	var err error
	switch req.Status {
	case models.RequestApproved:
		request, err = s.ledger.ApproveBalanceRequest(c.UserContext(), actor, requestId)
	case models.RequestRejected:
		request, err = s.ledger.RejectBalanceRequest(c.UserContext(), actor, requestId)
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "status must be APPROVED or REJECTED"})
	}
	if err != nil {
		return respondError(c, err)
	}

	s.publish(feed.EntityBalanceRequest, feed.ActionUpdate, request.Id)
	if request.Status == models.RequestApproved {
		s.publish(feed.EntityUser, feed.ActionUpdate, request.UserId)
	}
	return c.JSON(request)
}

type adjustBalanceRequest struct {
	Amount    decimal.Decimal        `json:"amount"`
	Direction store.BalanceDirection `json:"direction"`
}

// handleAdjustBalance applies a manual credit or debit to a user. Bookies
// may only adjust their own clients; a bookie credit also feeds the
// settlement deposit counter.
func (s *Server) handleAdjustBalance(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Direction != store.BalanceAdd && req.Direction != store.BalanceRemove {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "direction must be ADD or REMOVE"})
	}

	user, err := s.ledger.AdjustBalance(c.UserContext(), actingUser(c), c.Params("id"), req.Amount, req.Direction)
	if err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityUser, feed.ActionUpdate, user.Id)
	return c.JSON(user)
}
