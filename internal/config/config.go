// Package config provides configuration loading and validation for the CLI and the
// browser UI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/tracker"
)

// Defaults.
const (
	DefaultPort       = 8080
	DefaultStorePort  = 8081
	DefaultSessionTTL = 30 * time.Minute
)

// DefaultBaseURL is the collection address of a local devstore.
var DefaultBaseURL = fmt.Sprintf("http://localhost:%d/api/applications", DefaultStorePort)

// Environment variable names. The base URL is also read from the names the browser
// build used, so one .env file serves both.
const (
	EnvBaseURL    = "JOBSTORE_BASE_URL"
	EnvTimeout    = "JOBSTORE_TIMEOUT"
	EnvOrder      = "JOBS_ORDER"
	EnvPort       = "PORT"
	EnvToastTTL   = "TOAST_TTL"
	EnvSessionTTL = "SESSION_TTL"
)

var baseURLFallbacks = []string{"VITE_API_BASE_URL", "API_BASE_URL"}

// Duration is a time.Duration that reads and writes JSON as "10s"-style text.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as text.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the tracker configuration that can be loaded from a JSON file or
// the environment. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Job store
	BaseURL string   `json:"base_url,omitempty"` // Collection address of the job-storage API
	Timeout Duration `json:"timeout,omitempty"`  // Per-request timeout; zero keeps the platform default

	// Display
	Order    string   `json:"order,omitempty"`     // reverse, created or server
	ToastTTL Duration `json:"toast_ttl,omitempty"` // How long notifications stay visible

	// Browser UI
	Port       int      `json:"port,omitempty"`        // Port of the UI server
	SessionTTL Duration `json:"session_ttl,omitempty"` // Idle time before a UI session is dropped

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Log requests and store calls
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset variables leave
// fields empty; malformed values are errors.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	cfg := &Config{
		BaseURL: get(EnvBaseURL),
		Order:   get(EnvOrder),
	}
	for _, key := range baseURLFallbacks {
		if cfg.BaseURL != "" {
			break
		}
		cfg.BaseURL = get(key)
	}

	durations := []struct {
		key    string
		target *Duration
	}{
		{EnvTimeout, &cfg.Timeout},
		{EnvToastTTL, &cfg.ToastTTL},
		{EnvSessionTTL, &cfg.SessionTTL},
	}
	for _, d := range durations {
		raw := get(d.key)
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config error: %s: invalid duration %q", d.key, raw)
		}
		*d.target = Duration(parsed)
	}

	if raw := get(EnvPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config error: %s: invalid port %q", EnvPort, raw)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		parsed, err := url.Parse(c.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config error: 'base_url' must be an absolute URL, got %q", c.BaseURL)
		}
	}
	if _, err := tracker.ParseOrder(c.Order); err != nil {
		return fmt.Errorf("config error: 'order': %w", err)
	}

	// Validate numeric ranges
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	if c.ToastTTL < 0 {
		return fmt.Errorf("config error: 'toast_ttl' must be non-negative")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer a config file over the environment and the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Order == "" {
		result.Order = defaults.Order
	}

	// Numeric fields: use default if zero
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.ToastTTL == 0 {
		result.ToastTTL = defaults.ToastTTL
	}
	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so either layer enables it
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Order:      string(tracker.DefaultOrder),
		ToastTTL:   Duration(tracker.DefaultToastTTL),
		Port:       DefaultPort,
		SessionTTL: Duration(DefaultSessionTTL),
	}
}

// Resolve layers a config file (optional) over the environment and the defaults, and
// validates the result. Flags are applied by the caller on top.
func Resolve(path string) (Config, error) {
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	layered := env.MergeWithDefaults(Defaults())

	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		layered = file.MergeWithDefaults(layered)
	}

	if err := layered.Validate(); err != nil {
		return Config{}, err
	}
	return layered, nil
}

// OrderValue returns the parsed display order.
func (c *Config) OrderValue() tracker.Order {
	order, err := tracker.ParseOrder(c.Order)
	if err != nil {
		return tracker.DefaultOrder
	}
	return order
}
