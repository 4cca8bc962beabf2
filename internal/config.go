package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/othala/internal/graph"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Graph  GraphConfig       `yaml:"graph"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Graph.Validate()
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

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
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

// GraphConfig tunes the force-directed layout simulation. Zero values fall
// back to the engine defaults, so a config file only needs the knobs it
// wants to change.
type GraphConfig struct {
	Spread             float64 `yaml:"spread"`
	Iterations         int     `yaml:"iterations"`
	RepulsionStrength  float64 `yaml:"repulsion_strength"`
	RepulsionCutoff    float64 `yaml:"repulsion_cutoff"`
	AttractionStrength float64 `yaml:"attraction_strength"`
	MinDistance        float64 `yaml:"min_distance"`
	Damping            float64 `yaml:"damping"`
}

// Validate validates the graph layout configuration. Fields are optional but
// must be sane when set.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Spread, validation.Min(0.0)),
		validation.Field(&c.Iterations, validation.Min(0)),
		validation.Field(&c.RepulsionStrength, validation.Min(0.0)),
		validation.Field(&c.RepulsionCutoff, validation.Min(0.0)),
		validation.Field(&c.AttractionStrength, validation.Min(0.0)),
		validation.Field(&c.MinDistance, validation.Min(0.0)),
		validation.Field(&c.Damping, validation.Min(0.0), validation.Max(1.0)),
	)
}

// LayoutConfig converts the YAML knobs into an engine config. Unset fields
// stay zero and are defaulted by the engine.
func (c *GraphConfig) LayoutConfig() graph.Config {
	return graph.Config{
		Spread:             c.Spread,
		Iterations:         c.Iterations,
		RepulsionStrength:  c.RepulsionStrength,
		RepulsionCutoff:    c.RepulsionCutoff,
		AttractionStrength: c.AttractionStrength,
		MinDistance:        c.MinDistance,
		Damping:            c.Damping,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./othala.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
