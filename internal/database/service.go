package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.PoolStore.
var _ store.PoolStore = (*Service)(nil)

// Service is the SQLite implementation of the pool store. All financial
// mutations run inside a database transaction with an optimistic-locking
// version column on users, so two concurrent writers against the same
// balance cannot lose an update.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: unable to ping database: %v", store.ErrUnavailable, err)
	}

	service := &Service{db: db}
	if err := service.InitSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// NewServiceFromDB wraps an already-open database handle. Used by tests and
// by the one-shot CLI tools that manage their own connection.
func NewServiceFromDB(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) InitSchema() error {
	schema := `
	-- Users: the root entity. Balance and the bookie-deposit counter are
	-- stored as TEXT decimals; version drives optimistic locking.
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		pix_key TEXT NOT NULL DEFAULT '',
		parent_id TEXT NOT NULL DEFAULT '',
		total_deposits_by_bookie TEXT NOT NULL DEFAULT '0',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	CREATE INDEX IF NOT EXISTS idx_users_parent_id ON users(parent_id);

	-- Matches: the 12-fixture slate, ordered by position.
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		league TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		date TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_position ON matches(position);

	-- Tickets: picks and match_info are JSON snapshots taken at purchase
	-- time. Historical rows survive user deletion, so user_id has no FK.
	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		picks TEXT NOT NULL,
		match_info TEXT NOT NULL,
		cost TEXT NOT NULL,
		potential_prize TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		parent_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_user_id ON tickets(user_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_parent_id ON tickets(parent_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
	CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets(created_at);

	-- Balance requests: manual top-ups awaiting admin/bookie resolution.
	CREATE TABLE IF NOT EXISTS balance_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		parent_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_balance_requests_status ON balance_requests(status);
	CREATE INDEX IF NOT EXISTS idx_balance_requests_parent_id ON balance_requests(parent_id);
	CREATE INDEX IF NOT EXISTS idx_balance_requests_user_id ON balance_requests(user_id);

	-- Settings: singleton row, id fixed to 1.
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		pix_key TEXT NOT NULL DEFAULT '',
		betting_blocked INTEGER NOT NULL DEFAULT 0,
		ticket_price TEXT NOT NULL DEFAULT '2',
		jackpot_prize TEXT NOT NULL DEFAULT '1000'
	);
	`

	_, err := s.db.Exec(schema)
	return err
}
