package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) GetSettings(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	var blocked int
	var priceStr, prizeStr string

	err := s.db.QueryRowContext(ctx, queryGetSettings).
		Scan(&settings.PixKey, &blocked, &priceStr, &prizeStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: settings not initialized", store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings.BettingBlocked = blocked != 0
	settings.TicketPrice, err = decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticket price %q: %w", priceStr, err)
	}
	settings.JackpotPrize, err = decimal.NewFromString(prizeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jackpot prize %q: %w", prizeStr, err)
	}
	return &settings, nil
}

// UpdateSettings overwrites the singleton settings row, creating it on first
// call. Issued tickets keep their own price/prize snapshots regardless.
func (s *Service) UpdateSettings(ctx context.Context, settings models.AppSettings) error {
	blocked := 0
	if settings.BettingBlocked {
		blocked = 1
	}
	_, err := s.db.ExecContext(ctx, queryUpsertSettings,
		settings.PixKey, blocked,
		settings.TicketPrice.String(), settings.JackpotPrize.String())
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	zap.L().Info("Settings updated",
		zap.Bool("betting_blocked", settings.BettingBlocked),
		zap.String("ticket_price", settings.TicketPrice.String()),
		zap.String("jackpot_prize", settings.JackpotPrize.String()))
	return nil
}
