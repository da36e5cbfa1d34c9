// Package api exposes the betting pool over HTTP. Handlers stay thin:
// decode, delegate to internal/pool, map errors, publish a feed event on
// successful mutations.
package api

import (
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/feed"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/pool"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/suggest"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Server owns the Fiber app and the domain services behind it.
type Server struct {
	app    *fiber.App
	store  store.PoolStore
	tokens *auth.Tokens
	hub    *feed.Hub
	oracle *suggest.Client

	users      *pool.Users
	issuance   *pool.Issuance
	ledger     *pool.Ledger
	tickets    *pool.Tickets
	settlement *pool.Settlement
	raffle     *pool.Raffle
}

func NewServer(s store.PoolStore, tokens *auth.Tokens, hub *feed.Hub, oracle *suggest.Client) *Server {
	server := &Server{
		app: fiber.New(fiber.Config{
			AppName: "Rodada Dgrau API",
		}),
		store:      s,
		tokens:     tokens,
		hub:        hub,
		oracle:     oracle,
		users:      pool.NewUsers(s),
		issuance:   pool.NewIssuance(s),
		ledger:     pool.NewLedger(s),
		tickets:    pool.NewTickets(s),
		settlement: pool.NewSettlement(s),
		raffle:     pool.NewRaffle(s),
	}
	server.registerRoutes()
	return server
}

func (s *Server) registerRoutes() {
	s.app.Use(logger.New())
	s.app.Use(cors.New())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	public := s.app.Group("/api/v1")
	public.Post("/login", s.handleLogin)
	public.Post("/register", s.handleSelfRegister)

	api := s.app.Group("/api/v1", Auth(s.tokens, s.store))

	api.Get("/me", s.handleMe)
	api.Put("/me/password", s.handleChangePassword)
	api.Put("/me/pix", s.handleUpdatePixKey)

	api.Get("/matches", s.handleListMatches)
	api.Put("/matches/:id", RequireRole(models.RoleAdmin), s.handleUpdateMatch)
	api.Put("/matches", RequireRole(models.RoleAdmin), s.handleReplaceSlate)

	api.Get("/settings", s.handleGetSettings)
	api.Put("/settings", RequireRole(models.RoleAdmin), s.handleUpdateSettings)

	api.Post("/tickets", s.handlePlaceTicket)
	api.Get("/tickets", s.handleListTickets)
	api.Get("/tickets/mine", s.handleOwnTickets)
	api.Put("/tickets/:id/status", RequireRole(models.RoleAdmin, models.RoleBookie), s.handleTicketStatus)
	api.Delete("/tickets/:id", RequireRole(models.RoleAdmin), s.handleDeleteTicket)

	api.Post("/balance-requests", s.handleCreateBalanceRequest)
	api.Get("/balance-requests", s.handleListBalanceRequests)
	api.Put("/balance-requests/:id", RequireRole(models.RoleAdmin, models.RoleBookie), s.handleResolveBalanceRequest)

	api.Post("/users", RequireRole(models.RoleAdmin, models.RoleBookie), s.handleCreateUser)
	api.Get("/users", RequireRole(models.RoleAdmin, models.RoleBookie), s.handleListUsers)
	api.Delete("/users/:id", RequireRole(models.RoleAdmin), s.handleDeleteUser)
	api.Put("/users/:id/balance", RequireRole(models.RoleAdmin, models.RoleBookie), s.handleAdjustBalance)

	api.Get("/settlement", RequireRole(models.RoleAdmin), s.handleSettlementReport)
	api.Get("/settlement/mine", RequireRole(models.RoleBookie), s.handleSettlementLine)

	api.Get("/suggest", s.handleSuggest)
	api.Get("/raffle", RequireRole(models.RoleAdmin), s.handleRaffle)

	api.Get("/feed", s.handleFeed)
}

// Listen starts serving on the given port and blocks until Shutdown.
func (s *Server) Listen(port string) error {
	return s.app.Listen(":" + port)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) publish(entity feed.Entity, action feed.Action, id string) {
	if s.hub != nil {
		s.hub.Publish(feed.Event{Entity: entity, Action: action, Id: id})
	}
}
