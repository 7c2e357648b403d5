// Package cli provides common initialization utilities for cmd/ledgerd.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ledger/internal/backend"
	"ledger/internal/config"
	applog "ledger/internal/log"
)

// SetupLogger initializes structured logging at the given level and
// sets it as the process default.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentApp,
		Handler: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: applog.ParseLevel(level),
		}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend constructs the configured persistence backend.
// Returns the result or exits the process on failure.
func InitBackend(logger *applog.Logger, cfg *config.Config) *backend.Result {
	result, err := backend.New(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		FilePath:     cfg.LedgerFilePath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize persistence backend",
			"error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return result
}
