package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newTicketCode returns a short uppercase ticket code (the printable id
// customers quote to their bookie).
func newTicketCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:9])
}

// PurchaseTicket inserts the snapshotted ticket and, when AutoPay is set,
// debits the cost from the buyer inside the same transaction. If the buyer's
// balance was concurrently spent below the cost, the ticket falls back to
// PENDING rather than producing a VALIDATED ticket with no matching debit.
func (s *Service) PurchaseTicket(ctx context.Context, params store.PurchaseTicketParams) (*models.Ticket, error) {
	ticket := params.Ticket
	if ticket.Id == "" {
		ticket.Id = newTicketCode()
	}

	picksJSON, err := json.Marshal(ticket.Picks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode picks: %w", err)
	}
	matchInfoJSON, err := json.Marshal(ticket.MatchInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode match info: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status := models.TicketPending
	if params.AutoPay {
		balance, deposits, version, err := readUserBalance(ctx, tx, ticket.UserId)
		if err != nil {
			return nil, err
		}
		if balance.GreaterThanOrEqual(ticket.Cost) {
			newBalance := balance.Sub(ticket.Cost)
			if err := writeUserBalance(ctx, tx, ticket.UserId, newBalance, deposits, version); err != nil {
				return nil, err
			}
			status = models.TicketValidated
		} else {
			// Concurrent spend drained the balance between the caller's
			// read and this transaction.
			zap.L().Warn("Autopay balance no longer sufficient, issuing pending ticket",
				zap.String("user_id", ticket.UserId),
				zap.String("balance", balance.String()),
				zap.String("cost", ticket.Cost.String()))
		}
	}
	ticket.Status = status

	_, err = tx.ExecContext(ctx, queryInsertTicket,
		ticket.Id, ticket.UserId, ticket.UserName,
		string(picksJSON), string(matchInfoJSON),
		ticket.Cost.String(), ticket.PotentialPrize.String(),
		string(ticket.Status), ticket.ParentId)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Ticket purchased",
		zap.String("ticket_id", ticket.Id),
		zap.String("user_id", ticket.UserId),
		zap.String("status", string(ticket.Status)),
		zap.String("cost", ticket.Cost.String()))

	return s.GetTicketById(ctx, ticket.Id)
}

func (s *Service) GetTicketById(ctx context.Context, ticketId string) (*models.Ticket, error) {
	ticket, err := scanTicket(s.db.QueryRowContext(ctx, queryGetTicketById, ticketId).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ticket %s", store.ErrNotFound, ticketId)
	}
	return ticket, err
}

func (s *Service) GetTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.queryTickets(ctx, queryGetTickets)
}

func (s *Service) GetTicketsByUser(ctx context.Context, userId string) ([]models.Ticket, error) {
	return s.queryTickets(ctx, queryGetTicketsByUser, userId)
}

func (s *Service) GetTicketsByParent(ctx context.Context, parentId string) ([]models.Ticket, error) {
	return s.queryTickets(ctx, queryGetTicketsByParent, parentId)
}

// UpdateTicketStatus transitions a ticket along the lifecycle graph:
// PENDING may become VALIDATED or CANCELLED, VALIDATED may become WON, LOST
// or CANCELLED. WON, LOST and CANCELLED are terminal: any further transition
// fails with ErrAlreadyResolved; any other edge, or a target outside the
// enum, fails with ErrInvalidTransition. The write is a conditional update
// on the previously read status, so a racing transition loses cleanly
// instead of overwriting.
func (s *Service) UpdateTicketStatus(ctx context.Context, ticketId string, status models.TicketStatus) (*models.Ticket, error) {
	var currentStr string
	err := s.db.QueryRowContext(ctx, queryGetTicketStatus, ticketId).Scan(&currentStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ticket %s", store.ErrNotFound, ticketId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket status: %w", err)
	}

	current := models.TicketStatus(currentStr)
	if current.Terminal() {
		return nil, fmt.Errorf("%w: ticket %s is %s", store.ErrAlreadyResolved, ticketId, current)
	}
	if !status.Valid() || !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: ticket %s cannot go %s -> %s", store.ErrInvalidTransition, ticketId, current, status)
	}

	result, err := s.db.ExecContext(ctx, queryUpdateTicketStatus, string(status), ticketId, currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("ticket status update failed - %w", store.ErrConcurrentModification)
	}

	zap.L().Info("Ticket status updated",
		zap.String("ticket_id", ticketId),
		zap.String("from", string(current)),
		zap.String("to", string(status)))

	return s.GetTicketById(ctx, ticketId)
}

func (s *Service) DeleteTicket(ctx context.Context, ticketId string) error {
	return s.execExpectingRow(ctx, queryDeleteTicket, ticketId)
}

func (s *Service) queryTickets(ctx context.Context, query string, args ...any) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var tickets []models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}
	return tickets, nil
}

func scanTicket(scan func(dest ...any) error) (*models.Ticket, error) {
	var ticket models.Ticket
	var picksJSON, matchInfoJSON, costStr, prizeStr, status string

	err := scan(&ticket.Id, &ticket.UserId, &ticket.UserName,
		&picksJSON, &matchInfoJSON, &costStr, &prizeStr, &status,
		&ticket.ParentId, &ticket.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(picksJSON), &ticket.Picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	if err := json.Unmarshal([]byte(matchInfoJSON), &ticket.MatchInfo); err != nil {
		return nil, fmt.Errorf("failed to decode match info: %w", err)
	}
	ticket.Cost, err = decimal.NewFromString(costStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cost %q: %w", costStr, err)
	}
	ticket.PotentialPrize, err = decimal.NewFromString(prizeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prize %q: %w", prizeStr, err)
	}
	ticket.Status = models.TicketStatus(status)
	return &ticket, nil
}
