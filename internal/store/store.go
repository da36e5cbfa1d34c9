package store

import (
	"context"
	"errors"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrIncompleteSelection = errors.New("ticket requires 12 valid picks")
	ErrBettingClosed       = errors.New("betting is currently blocked")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyResolved     = errors.New("already resolved")
	ErrInvalidTransition   = errors.New("invalid ticket status transition")
	ErrNoEligibleTickets   = errors.New("no eligible tickets")
	ErrUnauthorized        = errors.New("operation not permitted for this role")
	ErrNotFound            = errors.New("not found")
	ErrUnavailable         = errors.New("store unavailable")

	// ErrConcurrentModification signals a lost optimistic-locking race; the
	// caller should refetch and retry.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// BalanceDirection selects the sign of a manual balance adjustment.
type BalanceDirection string

const (
	BalanceAdd    BalanceDirection = "ADD"
	BalanceRemove BalanceDirection = "REMOVE"
)

// CreateUserParams contains the parameters for registering a user.
// PasswordHash must already be hashed; the store never sees plaintext.
type CreateUserParams struct {
	Name         string
	Username     string
	PasswordHash string
	Role         models.Role
	ParentId     string
	PixKey       string
}

// PurchaseTicketParams contains a fully snapshotted ticket plus the autopay
// decision. When AutoPay is set the store debits Ticket.Cost from the buyer
// in the same transaction that inserts the ticket; if the conditional debit
// matches no row (a concurrent spend drained the balance) the ticket is
// inserted PENDING instead, so a VALIDATED ticket always has a matching debit.
type PurchaseTicketParams struct {
	Ticket  models.Ticket
	AutoPay bool
}

// AdjustBalanceParams contains the parameters for a manual balance change.
// BookieDeposit marks an ADD performed by a bookie on their own client, which
// additionally increments the client's cumulative bookie-deposit counter used
// by settlement.
type AdjustBalanceParams struct {
	UserId        string
	Amount        decimal.Decimal
	Direction     BalanceDirection
	BookieDeposit bool
}

// PoolStore defines the contract the betting-pool backend must satisfy.
type PoolStore interface {
	// --- Users ---
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUsersByParent(ctx context.Context, parentId string) ([]models.User, error)
	UpdateUserPixKey(ctx context.Context, userId, pixKey string) error
	UpdateUserPassword(ctx context.Context, userId, passwordHash string) error
	DeleteUser(ctx context.Context, userId string) error

	// --- Matches ---
	GetMatches(ctx context.Context) ([]models.Match, error)
	UpdateMatch(ctx context.Context, match models.Match) error
	ReplaceSlate(ctx context.Context, matches []models.Match) error

	// --- Settings ---
	GetSettings(ctx context.Context) (*models.AppSettings, error)
	UpdateSettings(ctx context.Context, settings models.AppSettings) error

	// --- Tickets ---
	PurchaseTicket(ctx context.Context, params PurchaseTicketParams) (*models.Ticket, error)
	GetTicketById(ctx context.Context, ticketId string) (*models.Ticket, error)
	GetTickets(ctx context.Context) ([]models.Ticket, error)
	GetTicketsByUser(ctx context.Context, userId string) ([]models.Ticket, error)
	GetTicketsByParent(ctx context.Context, parentId string) ([]models.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ticketId string, status models.TicketStatus) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, ticketId string) error

	// --- Balance ledger ---
	AdjustUserBalance(ctx context.Context, params AdjustBalanceParams) (*models.User, error)
	CreateBalanceRequest(ctx context.Context, userId string, amount decimal.Decimal) (*models.BalanceRequest, error)
	GetBalanceRequestById(ctx context.Context, requestId string) (*models.BalanceRequest, error)
	GetBalanceRequests(ctx context.Context) ([]models.BalanceRequest, error)
	GetBalanceRequestsByParent(ctx context.Context, parentId string) ([]models.BalanceRequest, error)
	GetBalanceRequestsByUser(ctx context.Context, userId string) ([]models.BalanceRequest, error)
	ResolveBalanceRequest(ctx context.Context, requestId string, approve bool) (*models.BalanceRequest, error)

	// --- Lifecycle ---
	Close()
}
