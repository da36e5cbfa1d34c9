package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/pool"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (s *Server) handleListMatches(c *fiber.Ctx) error {
	matches, err := s.store.GetMatches(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(matches)
}

// handleUpdateMatch edits one fixture, including setting its result once the
// match is played. Existing tickets keep their purchase-time snapshot.
func (s *Server) handleUpdateMatch(c *fiber.Ctx) error {
	var match models.Match
	if err := c.BodyParser(&match); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if match.Result != "" && !match.Result.Valid() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "result must be H, D or A"})
	}
	match.Id = c.Params("id")

	if err := s.store.UpdateMatch(c.UserContext(), match); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityMatch, feed.ActionUpdate, match.Id)
	return c.JSON(match)
}

// handleReplaceSlate swaps the whole fixture list for a new round. Positions
// follow the order of the submitted list.
func (s *Server) handleReplaceSlate(c *fiber.Ctx) error {
	var matches []models.Match
	if err := c.BodyParser(&matches); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(matches) != models.SlateSize {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "a slate requires exactly 12 matches",
		})
	}

	if err := s.store.ReplaceSlate(c.UserContext(), matches); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityMatch, feed.ActionUpdate, "")
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	settings, err := s.store.GetSettings(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// handleUpdateSettings replaces the settings row. Tickets already sold keep
// the price and prize they were bought under.
func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var settings models.AppSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !settings.TicketPrice.IsPositive() || settings.JackpotPrize.IsNegative() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "ticket price must be positive and jackpot prize non-negative",
		})
	}

	if err := s.store.UpdateSettings(c.UserContext(), settings); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntitySettings, feed.ActionUpdate, "")
	return c.JSON(settings)
}

type createUserRequest struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	ParentId string      `json:"parentId"`
	PixKey   string      `json:"pixKey"`
}

// handleCreateUser registers a user on behalf of the actor. A bookie always
// creates clients under themselves, whatever the request says; admins choose
// role and parent freely.
func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	actor := actingUser(c)
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "name, username and password are required"})
	}

	if actor.Role == models.RoleBookie {
		req.Role = models.RoleClient
		req.ParentId = actor.Id
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not register"})
	}

	user, err := s.users.Register(c.UserContext(), actor, pool.RegisterParams{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		ParentId:     req.ParentId,
		PixKey:       req.PixKey,
	})
	if err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityUser, feed.ActionInsert, user.Id)
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.users.UsersFor(c.UserContext(), actingUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// handleDeleteUser removes an account. Tickets and resolved requests stay on
// record for settlement history.
func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	userId := c.Params("id")
	if err := s.users.Delete(c.UserContext(), actingUser(c), userId); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityUser, feed.ActionDelete, userId)
	return c.SendStatus(fiber.StatusNoContent)
}
