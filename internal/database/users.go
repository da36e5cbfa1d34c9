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

func (s *Service) CreateUser(ctx context.Context, params store.CreateUserParams) (*models.User, error) {
	userId := uuid.New().String()

	_, err := s.db.ExecContext(ctx, queryInsertUser,
		userId, params.Name, params.Username, params.PasswordHash,
		string(params.Role), params.PixKey, params.ParentId)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	zap.L().Info("User created",
		zap.String("user_id", userId),
		zap.String("username", params.Username),
		zap.String("role", string(params.Role)),
		zap.String("parent_id", params.ParentId))

	return s.GetUserById(ctx, userId)
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	return s.scanUserRow(s.db.QueryRowContext(ctx, queryGetUserById, userId))
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUserRow(s.db.QueryRowContext(ctx, queryGetUserByUsername, username))
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, queryGetUsers)
}

func (s *Service) GetUsersByParent(ctx context.Context, parentId string) ([]models.User, error) {
	return s.queryUsers(ctx, queryGetUsersByParent, parentId)
}

func (s *Service) UpdateUserPixKey(ctx context.Context, userId, pixKey string) error {
	return s.execExpectingRow(ctx, queryUpdateUserPixKey, pixKey, userId)
}

func (s *Service) UpdateUserPassword(ctx context.Context, userId, passwordHash string) error {
	return s.execExpectingRow(ctx, queryUpdateUserPassword, passwordHash, userId)
}

// DeleteUser removes the account row only. Tickets and balance requests
// referencing the user are retained as history.
func (s *Service) DeleteUser(ctx context.Context, userId string) error {
	if err := s.execExpectingRow(ctx, queryDeleteUser, userId); err != nil {
		return err
	}
	zap.L().Info("User deleted", zap.String("user_id", userId))
	return nil
}

// AdjustUserBalance applies a manual credit or debit atomically. A REMOVE
// that would drive the balance negative fails with ErrInsufficientBalance
// and leaves the row untouched. A bookie-attributed ADD also advances the
// cumulative deposit counter consumed by settlement.
func (s *Service) AdjustUserBalance(ctx context.Context, params store.AdjustBalanceParams) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, deposits, version, err := readUserBalance(ctx, tx, params.UserId)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	newDeposits := deposits
	switch params.Direction {
	case store.BalanceAdd:
		newBalance = balance.Add(params.Amount)
		if params.BookieDeposit {
			newDeposits = deposits.Add(params.Amount)
		}
	case store.BalanceRemove:
		if params.Amount.GreaterThan(balance) {
			return nil, fmt.Errorf("%w: balance %s, requested %s",
				store.ErrInsufficientBalance, balance.String(), params.Amount.String())
		}
		newBalance = balance.Sub(params.Amount)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", store.ErrInvalidAmount, params.Direction)
	}

	if err := writeUserBalance(ctx, tx, params.UserId, newBalance, newDeposits, version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Balance adjusted",
		zap.String("user_id", params.UserId),
		zap.String("direction", string(params.Direction)),
		zap.String("amount", params.Amount.String()),
		zap.String("old_balance", balance.String()),
		zap.String("new_balance", newBalance.String()),
		zap.Bool("bookie_deposit", params.BookieDeposit))

	return s.GetUserById(ctx, params.UserId)
}

// readUserBalance loads the balance, deposit counter and lock version inside
// a transaction.
func readUserBalance(ctx context.Context, tx *sql.Tx, userId string) (decimal.Decimal, decimal.Decimal, int64, error) {
	var balanceStr, depositsStr string
	var version int64

	err := tx.QueryRowContext(ctx, queryGetUserBalanceForUpdate, userId).Scan(&balanceStr, &depositsStr, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("%w: user %s", store.ErrNotFound, userId)
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to read balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to parse balance %q: %w", balanceStr, err)
	}
	deposits, err := decimal.NewFromString(depositsStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to parse deposit total %q: %w", depositsStr, err)
	}
	return balance, deposits, version, nil
}

// writeUserBalance stores a new balance/deposit pair guarded by the version
// read earlier. Zero rows means a concurrent writer got there first.
func writeUserBalance(ctx context.Context, tx *sql.Tx, userId string, balance, deposits decimal.Decimal, version int64) error {
	result, err := tx.ExecContext(ctx, queryUpdateUserBalanceAndDeposits,
		balance.String(), deposits.String(), userId, version)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("balance update failed - %w", store.ErrConcurrentModification)
	}
	return nil
}

func (s *Service) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (s *Service) scanUserRow(row *sql.Row) (*models.User, error) {
	user, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", store.ErrNotFound)
	}
	return user, err
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var user models.User
	var role, balanceStr, depositsStr string

	err := scan(&user.Id, &user.Name, &user.Username, &user.PasswordHash,
		&role, &balanceStr, &user.PixKey, &user.ParentId, &depositsStr, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	user.Role = models.Role(role)
	user.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance %q: %w", balanceStr, err)
	}
	user.TotalDepositsByBookie, err = decimal.NewFromString(depositsStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deposit total %q: %w", depositsStr, err)
	}
	return &user, nil
}

// execExpectingRow runs a mutation and maps zero affected rows to ErrNotFound.
func (s *Service) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
