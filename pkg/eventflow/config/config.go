// Package config loads eventflow settings from YAML or JSON files.
//
// Settings cover the ambient concerns of the completion protocol:
// logging level, the lifecycle journal backend, and the observability
// toggles. Protocol behavior itself (recovery handlers, external
// completion dependencies) is configured in code via options.
package config

import (
	"fmt"
	"log/slog"
)

// Journal backend names.
const (
	JournalDisabled = ""
	JournalMemory   = "memory"
	JournalSQLite   = "sqlite"
)

// Settings is the file-loadable eventflow configuration.
type Settings struct {
	// Logging configures the structured logger.
	Logging LoggingSettings `yaml:"logging" json:"logging"`

	// Journal configures the lifecycle journal.
	Journal JournalSettings `yaml:"journal" json:"journal"`

	// Observability toggles metrics and tracing.
	Observability ObservabilitySettings `yaml:"observability" json:"observability"`
}

// LoggingSettings configures the structured logger.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info".
	Level string `yaml:"level" json:"level"`
}

// JournalSettings configures the lifecycle journal.
type JournalSettings struct {
	// Backend is "", "memory", or "sqlite". Empty disables journaling.
	Backend string `yaml:"backend" json:"backend"`

	// Path is the SQLite database path. Required for the sqlite
	// backend; ignored otherwise.
	Path string `yaml:"path" json:"path"`
}

// ObservabilitySettings toggles metrics and tracing.
type ObservabilitySettings struct {
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry tracing.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Logging: LoggingSettings{Level: "info"},
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if _, err := s.LogLevel(); err != nil {
		return err
	}
	switch s.Journal.Backend {
	case JournalDisabled, JournalMemory:
	case JournalSQLite:
		if s.Journal.Path == "" {
			return fmt.Errorf("journal: sqlite backend requires a path")
		}
	default:
		return fmt.Errorf("journal: unknown backend %q", s.Journal.Backend)
	}
	return nil
}

// LogLevel parses the configured logging level.
func (s Settings) LogLevel() (slog.Level, error) {
	switch s.Logging.Level {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s.Logging.Level)
	}
}
