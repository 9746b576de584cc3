// Package config provides configuration management for the news fetcher.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the YAML file.
const (
	EnvAPIKey    = "RAPIDAPI_KEY"
	EnvOutputDir = "NEWSFETCH_OUTPUT_DIR"
)

// DateLayout is the layout of window.from and window.to.
const DateLayout = "2006-01-02"

// DefaultPath is tried when no -config flag is given.
const DefaultPath = "configs/newsfetch.yaml"

// Configuration validation errors.
var (
	ErrMissingHost        = errors.New("api.host is required")
	ErrMissingBaseURL     = errors.New("api.base_url is required")
	ErrInvalidPageSize    = errors.New("api.page_size must be at least 1")
	ErrInvalidPacing      = errors.New("api.pacing_ms must be non-negative")
	ErrInvalidTimeout     = errors.New("api.timeout_sec must be at least 1")
	ErrMissingSymbolsFile = errors.New("input.symbols_file is required")
	ErrMissingOutputDir   = errors.New("output.dir is required")
	ErrInvalidWindowDate  = errors.New("window dates must use YYYY-MM-DD")
	ErrWindowOrder        = errors.New("window.from must not be after window.to")
	ErrMissingSessionDB   = errors.New("session.db_path is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat   = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingServerAddr  = errors.New("server.addr is required")
	ErrInvalidTimezone    = errors.New("schedule.timezone is not a known time zone")
	ErrInvalidLookback    = errors.New("schedule.lookback_days must be at least 1")
)

// Config represents the complete fetcher configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Window   WindowConfig   `yaml:"window"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig describes the upstream news API.
type APIConfig struct {
	Host       string `yaml:"host"`
	BaseURL    string `yaml:"base_url"`
	Key        string `yaml:"key"`
	PageSize   int    `yaml:"page_size"`
	PacingMs   int    `yaml:"pacing_ms"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Pacing returns the minimum spacing between two upstream requests.
func (a *APIConfig) Pacing() time.Duration {
	return time.Duration(a.PacingMs) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout.
func (a *APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// InputConfig locates the symbol list.
type InputConfig struct {
	SymbolsFile string `yaml:"symbols_file"`
}

// OutputConfig locates the per-symbol tables.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// WindowConfig is the default publish-date window, inclusive of From and exclusive of To.
type WindowConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// SessionConfig locates the run history database.
type SessionConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig configures the HTTP control surface.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ScheduleConfig configures recurring runs of the API server. An empty Cron
// disables them. Scheduled runs cover the LookbackDays days up to and
// including the day they fire.
type ScheduleConfig struct {
	Cron         string `yaml:"cron"`
	Timezone     string `yaml:"timezone"`
	LookbackDays int    `yaml:"lookback_days"`
}

// Location resolves the schedule time zone.
func (s *ScheduleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}

	return loc, nil
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// LoadConfig loads configuration from a YAML file, then applies defaults and
// environment overrides. An empty path yields the defaults.
func LoadConfig(filepath string) (*Config, error) {
	var cfg Config

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Locate returns path, or DefaultPath when path is empty and the default
// file exists. An empty result means built-in defaults.
func Locate(path string) string {
	if path != "" {
		return path
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}

	return ""
}

// LoadDotEnv loads a .env file into the process environment when present.
// Variables that are already set win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

func (c *Config) applyDefaults() {
	if c.API.Host == "" {
		c.API.Host = "seeking-alpha.p.rapidapi.com"
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://" + c.API.Host
	}

	if c.API.PageSize == 0 {
		c.API.PageSize = 20
	}

	if c.API.PacingMs == 0 {
		c.API.PacingMs = 1000
	}

	if c.API.TimeoutSec == 0 {
		c.API.TimeoutSec = 30
	}

	if c.Input.SymbolsFile == "" {
		c.Input.SymbolsFile = "data/symbollist.txt"
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "/tmp/newsdire"
	}

	if c.Window.From == "" {
		c.Window.From = "2023-10-01"
	}

	if c.Window.To == "" {
		c.Window.To = "2023-10-31"
	}

	if c.Session.DBPath == "" {
		c.Session.DBPath = "newsfetch.db"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Local"
	}

	if c.Schedule.LookbackDays == 0 {
		c.Schedule.LookbackDays = 1
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) applyEnvironmentOverrides() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.API.Key = key
	}

	if dir := os.Getenv(EnvOutputDir); dir != "" {
		c.Output.Dir = dir
	}
}

// Validate validates the configuration. The API key is not checked here;
// a missing key is reported when a run starts.
func (c *Config) Validate() error {
	if c.API.Host == "" {
		return ErrMissingHost
	}

	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.API.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if c.API.PacingMs < 0 {
		return ErrInvalidPacing
	}

	if c.API.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Input.SymbolsFile == "" {
		return ErrMissingSymbolsFile
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if _, _, err := c.Window.Bounds(); err != nil {
		return err
	}

	if c.Session.DBPath == "" {
		return ErrMissingSessionDB
	}

	if c.Server.Addr == "" {
		return ErrMissingServerAddr
	}

	if _, err := c.Schedule.Location(); err != nil {
		return err
	}

	if c.Schedule.LookbackDays < 1 {
		return ErrInvalidLookback
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Bounds converts the window dates to local midnight.
func (w WindowConfig) Bounds() (time.Time, time.Time, error) {
	from, err := ParseDate(w.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := ParseDate(w.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, ErrWindowOrder
	}

	return from, to, nil
}

// ParseDate parses a YYYY-MM-DD date at local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWindowDate, s)
	}

	return t, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Host: %s, PageSize: %d, Window: %s..%s, Output: %s}",
		c.API.Host,
		c.API.PageSize,
		c.Window.From,
		c.Window.To,
		c.Output.Dir,
	)
}
