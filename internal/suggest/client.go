// Package suggest calls the external pick-suggestion oracle. The oracle is
// untrusted: on any failure or malformed response the client falls back to a
// fixed all-home pick set, so garbage can never reach a ticket.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"

	"go.uber.org/zap"
)

// Client talks to the pick-suggestion service.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(cfg models.SuggestConfig) *Client {
	return &Client{
		url:  cfg.URL,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type fixture struct {
	League   string `json:"league"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

type suggestRequest struct {
	Matches []fixture `json:"matches"`
}

// Picks returns one suggested pick per slate position. It never returns an
// error to the caller: any transport failure, non-200 status, wrong-length
// array or invalid value is logged and replaced by the fallback.
func (c *Client) Picks(ctx context.Context, matches []models.Match) []models.Pick {
	if c.url == "" {
		zap.L().Warn("Suggestion service not configured, using fallback picks")
		return fallbackPicks()
	}

	picks, err := c.fetch(ctx, matches)
	if err != nil {
		zap.L().Warn("Suggestion service failed, using fallback picks", zap.Error(err))
		return fallbackPicks()
	}
	return picks
}

func (c *Client) fetch(ctx context.Context, matches []models.Match) ([]models.Pick, error) {
	fixtures := make([]fixture, len(matches))
	for i, m := range matches {
		fixtures[i] = fixture{League: m.League, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam}
	}

	body, err := json.Marshal(suggestRequest{Matches: fixtures})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw []string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(raw) != models.SlateSize {
		return nil, fmt.Errorf("expected %d picks, got %d", models.SlateSize, len(raw))
	}

	picks := make([]models.Pick, len(raw))
	for i, value := range raw {
		pick := models.Pick(value)
		if !pick.Valid() {
			return nil, fmt.Errorf("invalid pick %q at position %d", value, i)
		}
		picks[i] = pick
	}
	return picks, nil
}

// fallbackPicks is the fixed default when the oracle is unavailable or
// misbehaves.
func fallbackPicks() []models.Pick {
	picks := make([]models.Pick, models.SlateSize)
	for i := range picks {
		picks[i] = models.PickHome
	}
	return picks
}
