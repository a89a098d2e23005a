// Package config provides configuration management for the payment engine.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration. Everything in it is
// optional: with no environment at all the engine runs with the built-in
// policy and no audit database.
type Config struct {
	Engine EngineConfig
}

// EngineConfig holds processing-related settings.
type EngineConfig struct {
	// AuditDBPath is the SQLite audit database path. Empty disables
	// audit recording.
	AuditDBPath string

	// PolicyFile is the dispute policy YAML path. Empty selects the
	// built-in defaults.
	PolicyFile string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Engine: EngineConfig{
			AuditDBPath: os.Getenv("ENGINE_AUDIT_DB"),
			PolicyFile:  os.Getenv("ENGINE_POLICY_FILE"),
		},
	}

	return config, nil
}
