package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin exchanges credentials for a bearer token. Username matching is
// case-insensitive. Unknown user and wrong password return the same 401 so
// the response does not reveal which usernames exist.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.store.GetUserByUsername(c.UserContext(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		zap.L().Error("Failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not issue token"})
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

// handleSelfRegister is the public signup path: a parentless client with
// zero balance, logged in immediately.
func (s *Server) handleSelfRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "name, username and password are required"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not register"})
	}

	user, err := s.users.SelfRegister(c.UserContext(), req.Name, req.Username, hash)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	s.publish(feed.EntityUser, feed.ActionInsert, user.Id)

	token, err := s.tokens.Issue(user)
	if err != nil {
		zap.L().Error("Failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not issue token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": user})
}

// handleMe returns the acting user's profile plus the resolved payment key:
// the parent bookie's PIX key when present, otherwise the admin key.
func (s *Server) handleMe(c *fiber.Ctx) error {
	user := actingUser(c)
	pixKey, err := s.users.EffectivePixKey(c.UserContext(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user, "effectivePixKey": pixKey})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	user := actingUser(c)
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "current password does not match"})
	}
	if req.NewPassword == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "new password is required"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not change password"})
	}
	if err := s.store.UpdateUserPassword(c.UserContext(), user.Id, hash); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type updatePixKeyRequest struct {
	PixKey string `json:"pixKey"`
}

func (s *Server) handleUpdatePixKey(c *fiber.Ctx) error {
	user := actingUser(c)
	var req updatePixKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.store.UpdateUserPixKey(c.UserContext(), user.Id, req.PixKey); err != nil {
		return respondError(c, err)
	}
	s.publish(feed.EntityUser, feed.ActionUpdate, user.Id)
	return c.SendStatus(fiber.StatusNoContent)
}
