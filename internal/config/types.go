// Package config loads hostpanel settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Config is the full hostpanel configuration.
type Config struct {
	DataDir string        `koanf:"data_dir"`
	Log     LogConfig     `koanf:"log"`
	HTTP    HTTPConfig    `koanf:"http"`
	Browser BrowserConfig `koanf:"browser"`
	Nodes   NodesConfig   `koanf:"nodes"`
	Secrets SecretsConfig `koanf:"secrets"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type HTTPConfig struct {
	Addr          string `koanf:"addr"`
	SessionSecret string `koanf:"session_secret"`
}

// BrowserConfig controls the database browser.
type BrowserConfig struct {
	DeniedVerbs  []string      `koanf:"denied_verbs"`
	QueryTimeout time.Duration `koanf:"query_timeout"` // 0 = no limit
}

type NodesConfig struct {
	CheckSchedule string `koanf:"check_schedule"`
}

// SecretsConfig selects where host passwords are kept: "sqlite" or "keychain".
type SecretsConfig struct {
	Backend string `koanf:"backend"`
}

// DatabasePath is the panel's SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "hostpanel.db")
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is required")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Browser.QueryTimeout < 0 {
		problems = append(problems, "browser.query_timeout must not be negative")
	}
	if strings.TrimSpace(c.Nodes.CheckSchedule) == "" {
		problems = append(problems, "nodes.check_schedule is required")
	}
	switch c.Secrets.Backend {
	case SecretsSQLite, SecretsKeychain:
	default:
		problems = append(problems, fmt.Sprintf("secrets.backend %q is not one of sqlite, keychain", c.Secrets.Backend))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

const (
	SecretsSQLite   = "sqlite"
	SecretsKeychain = "keychain"
)
