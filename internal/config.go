// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/othala/internal/classify"
	"github.com/starford/othala/internal/store"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig    `yaml:"app"`
	Inventory InventoryConfig      `yaml:"inventory"`
	Scan      ScanConfig           `yaml:"scan"`
	Topics    []classify.TopicRule `yaml:"topics"`
	Auth      AuthConfig           `yaml:"auth"`
	Watch     WatchConfig          `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Inventory.Validate(); err != nil {
		return err
	}
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	for i, rule := range c.Topics {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("topics[%d]: name is required", i)
		}
		if len(rule.AllRequired) == 0 {
			return fmt.Errorf("topics[%d] (%s): all_required must not be empty", i, rule.Name)
		}
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// InventoryConfig controls the persisted workbook per tracked folder.
type InventoryConfig struct {
	// Filename is the workbook name written inside each tracked folder.
	Filename string `yaml:"filename"`
	// MaxBackups caps the timestamped rotating backups kept per location.
	MaxBackups int `yaml:"max_backups"`
}

// Validate validates the inventory configuration.
func (c *InventoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Filename, validation.Required),
		validation.Field(&c.MaxBackups, validation.Min(1)),
	)
}

// ScanConfig controls tree traversal.
type ScanConfig struct {
	// ExcludedDirs are housekeeping directory names skipped entirely.
	ExcludedDirs []string `yaml:"excluded_dirs"`
	// LockPrefix identifies transient lock/temp files by name prefix.
	LockPrefix string `yaml:"lock_prefix"`
}

// Validate validates the scan configuration.
func (c *ScanConfig) Validate() error {
	for _, d := range c.ExcludedDirs {
		if strings.ContainsAny(d, `/\`) {
			return fmt.Errorf("scan: excluded_dirs entries are names, not paths: %q", d)
		}
	}
	return nil
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// WatchConfig controls the optional change watcher.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// Root is the tracked folder the watcher rescans on change bursts.
	Root string `yaml:"root"`
	// Debounce collapses bursts of filesystem events into one rescan.
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watcher configuration.
func (c *WatchConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
// The excluded directory set and lock prefix cover the housekeeping
// artifacts of version control, notebooks, and office suites.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Inventory: InventoryConfig{
			Filename:   "inventory.xlsx",
			MaxBackups: store.DefaultMaxBackups,
		},
		Scan: ScanConfig{
			ExcludedDirs: []string{".git", "__pycache__", ".ipynb_checkpoints", ".DS_Store"},
			LockPrefix:   "~$",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
