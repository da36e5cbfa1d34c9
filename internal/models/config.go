package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Suggest  SuggestConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string
}

// AuthConfig holds session-token settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SuggestConfig holds pick-suggestion oracle settings
type SuggestConfig struct {
	URL     string
	Timeout time.Duration
}
