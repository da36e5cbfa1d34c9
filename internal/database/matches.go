package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) GetMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := s.db.QueryContext(ctx, queryGetMatches)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var matches []models.Match
	for rows.Next() {
		var match models.Match
		var result string
		err := rows.Scan(&match.Id, &match.League, &match.HomeTeam, &match.AwayTeam,
			&match.Date, &result, &match.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		match.Result = models.Pick(result)
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

// UpdateMatch edits a fixture in place. Tickets are unaffected: they carry
// their own snapshot of the team names taken at purchase time.
func (s *Service) UpdateMatch(ctx context.Context, match models.Match) error {
	if err := s.execExpectingRow(ctx, queryUpdateMatch,
		match.League, match.HomeTeam, match.AwayTeam, match.Date,
		string(match.Result), match.Id); err != nil {
		return err
	}
	zap.L().Info("Match updated",
		zap.String("match_id", match.Id),
		zap.String("home", match.HomeTeam),
		zap.String("away", match.AwayTeam))
	return nil
}

// ReplaceSlate swaps the whole fixture list for a new slate. Used by the
// setup tool; the slate must have exactly one entry per position.
func (s *Service) ReplaceSlate(ctx context.Context, matches []models.Match) error {
	if len(matches) != models.SlateSize {
		return fmt.Errorf("slate must contain %d matches, got %d", models.SlateSize, len(matches))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryDeleteMatches); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	for i, match := range matches {
		id := match.Id
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, queryInsertMatch,
			id, match.League, match.HomeTeam, match.AwayTeam, match.Date,
			string(match.Result), i)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Slate replaced", zap.Int("matches", len(matches)))
	return nil
}
