package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBalanceRequest opens a PENDING top-up request for the given user.
// The requester's parent bookie, if any, is copied onto the request so the
// right actor sees it for resolution.
func (s *Service) CreateBalanceRequest(ctx context.Context, userId string, amount decimal.Decimal) (*models.BalanceRequest, error) {
	user, err := s.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	requestId := uuid.New().String()
	_, err = s.db.ExecContext(ctx, queryInsertBalanceRequest,
		requestId, user.Id, user.Name, amount.String(), user.ParentId)
	if err != nil {
		return nil, fmt.Errorf("failed to insert balance request: %w", err)
	}

	zap.L().Info("Balance request created",
		zap.String("request_id", requestId),
		zap.String("user_id", user.Id),
		zap.String("amount", amount.String()),
		zap.String("parent_id", user.ParentId))

	return s.GetBalanceRequestById(ctx, requestId)
}

func (s *Service) GetBalanceRequestById(ctx context.Context, requestId string) (*models.BalanceRequest, error) {
	request, err := scanBalanceRequest(s.db.QueryRowContext(ctx, queryGetBalanceRequestById, requestId).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: balance request %s", store.ErrNotFound, requestId)
	}
	return request, err
}

func (s *Service) GetBalanceRequests(ctx context.Context) ([]models.BalanceRequest, error) {
	return s.queryBalanceRequests(ctx, queryGetBalanceRequests)
}

func (s *Service) GetBalanceRequestsByParent(ctx context.Context, parentId string) ([]models.BalanceRequest, error) {
	return s.queryBalanceRequests(ctx, queryGetBalanceRequestsByParent, parentId)
}

func (s *Service) GetBalanceRequestsByUser(ctx context.Context, userId string) ([]models.BalanceRequest, error) {
	return s.queryBalanceRequests(ctx, queryGetBalanceRequestsByUser, userId)
}

// ResolveBalanceRequest transitions a PENDING request to APPROVED or
// REJECTED. Approval credits the requester's balance (and the bookie deposit
// counter when the request is parented) in the same transaction. A request
// that is already resolved fails with ErrAlreadyResolved, so a double
// approval can never credit twice.
func (s *Service) ResolveBalanceRequest(ctx context.Context, requestId string, approve bool) (*models.BalanceRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userId, amountStr, statusStr, parentId string
	err = tx.QueryRowContext(ctx, queryGetBalanceRequestForResolve, requestId).
		Scan(&userId, &amountStr, &statusStr, &parentId)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: balance request %s", store.ErrNotFound, requestId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read balance request: %w", err)
	}

	if models.RequestStatus(statusStr) != models.RequestPending {
		return nil, fmt.Errorf("%w: balance request %s is %s", store.ErrAlreadyResolved, requestId, statusStr)
	}

	newStatus := models.RequestRejected
	if approve {
		newStatus = models.RequestApproved
	}

	// Conditional on PENDING so a concurrent resolver loses instead of
	// double-crediting.
	result, err := tx.ExecContext(ctx, queryResolveBalanceRequest, string(newStatus), requestId)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve balance request: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: balance request %s", store.ErrAlreadyResolved, requestId)
	}

	if approve {
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse request amount %q: %w", amountStr, err)
		}

		balance, deposits, version, err := readUserBalance(ctx, tx, userId)
		if err != nil {
			return nil, err
		}
		newBalance := balance.Add(amount)
		newDeposits := deposits
		if parentId != "" {
			newDeposits = deposits.Add(amount)
		}
		if err := writeUserBalance(ctx, tx, userId, newBalance, newDeposits, version); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Balance request resolved",
		zap.String("request_id", requestId),
		zap.String("user_id", userId),
		zap.String("status", string(newStatus)),
		zap.String("amount", amountStr))

	return s.GetBalanceRequestById(ctx, requestId)
}

func (s *Service) queryBalanceRequests(ctx context.Context, query string, args ...any) ([]models.BalanceRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance requests: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var requests []models.BalanceRequest
	for rows.Next() {
		request, err := scanBalanceRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance request rows: %w", err)
	}
	return requests, nil
}

func scanBalanceRequest(scan func(dest ...any) error) (*models.BalanceRequest, error) {
	var request models.BalanceRequest
	var amountStr, status string

	err := scan(&request.Id, &request.UserId, &request.UserName,
		&amountStr, &status, &request.ParentId, &request.CreatedAt)
	if err != nil {
		return nil, err
	}

	request.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}
	request.Status = models.RequestStatus(status)
	return &request, nil
}
