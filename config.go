package usermode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Backend         string
	FilePath        string
	SQLitePath      string
	DefaultMode     string
	DynamoEndpoint  string
	DynamoTableName string
	TableKey        string
	AWSRegion       string
	LogLevel        slog.Level
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Backend:         strings.ToLower(envOrDefault("MODE_BACKEND", BackendFile)),
		FilePath:        envOrDefault("MODE_PREFS_PATH", DefaultFilePath),
		SQLitePath:      envOrDefault("MODE_SQLITE_PATH", "user_prefs.db"),
		DefaultMode:     envOrDefault("MODE_DEFAULT", string(DefaultMode)),
		DynamoEndpoint:  os.Getenv("DYNAMODB_ENDPOINT"),
		DynamoTableName: envOrDefault("DYNAMODB_TABLE_NAME", "user-preferences"),
		TableKey:        envOrDefault("MODE_TABLE_KEY", "default"),
		AWSRegion:       envOrDefault("AWS_REGION", "us-east-1"),
		LogLevel:        ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the backend name and default mode.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendDynamoDB, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (expected %s, %s or %s)", c.Backend, BackendFile, BackendDynamoDB, BackendSQLite)
	}
	if _, err := ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("default mode: %w", err)
	}
	return nil
}

// OpenBackend builds the Backend selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileBackend(cfg.FilePath), nil
	case BackendDynamoDB:
		return NewDynamoBackend(ctx, cfg)
	case BackendSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLBackend(ctx, db)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseLogLevel maps debug, warn and error to slog levels; anything else is
// info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
