package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment" validate:"omitempty,oneof=development production dev prod test"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	EODHD       EODHDConfig    `toml:"eodhd"`
	Cache       CacheConfig    `toml:"cache"`
	Research    ResearchConfig `toml:"research"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required_without=InMemory"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`                          // Delete database on startup for clean runs
	InMemory       bool   `toml:"in_memory"`                                 // Keep the database in memory only
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
	File   string   `toml:"file"` // Log file name inside ./logs (default: divcast.log)
}

// EODHDConfig contains EODHD API configuration
type EODHDConfig struct {
	APIKey         string `toml:"api_key"`                                // EODHD API token (or DIVCAST_EODHD_API_KEY / EODHD_API_KEY)
	BaseURL        string `toml:"base_url" validate:"omitempty,url"`      // Override for the API base URL
	RateLimit      int    `toml:"rate_limit" validate:"min=1"`            // Requests per second
	Timeout        string `toml:"timeout"`                                // HTTP timeout as duration string (default: "30s")
	MaxAttempts    int    `toml:"max_attempts" validate:"min=1,max=10"`   // Total attempts per upstream call (default: 3)
	InitialBackoff string `toml:"initial_backoff"`                        // First retry wait (default: "500ms")
	MaxBackoff     string `toml:"max_backoff"`                            // Retry wait cap (default: "2s")
}

// CacheConfig controls the research snapshot cache
type CacheConfig struct {
	Enabled   bool   `toml:"enabled"`    // Cache fetched inputs between runs
	TTL       string `toml:"ttl"`        // Persistent entry lifetime (default: "24h")
	MemoryTTL string `toml:"memory_ttl"` // In-process entry lifetime (default: "15m")
}

// ResearchConfig controls batch research and the scheduled refresh
type ResearchConfig struct {
	Concurrency     int      `toml:"concurrency" validate:"min=1,max=64"` // Parallel symbols in a batch
	DefaultExchange string   `toml:"default_exchange"`                    // Exchange for tickers without a prefix
	Watchlist       []string `toml:"watchlist"`                           // Tickers refreshed on schedule
	RefreshSchedule string   `toml:"refresh_schedule"`                    // Cron schedule for watchlist refresh (empty = disabled)
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
			File:   "divcast.log",
		},
		EODHD: EODHDConfig{
			RateLimit:      10,
			Timeout:        "30s",
			MaxAttempts:    DefaultRetryMaxAttempts,
			InitialBackoff: DefaultRetryInitialBackoff.String(),
			MaxBackoff:     DefaultRetryMaxBackoff.String(),
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       "24h",
			MemoryTTL: "15m",
		},
		Research: ResearchConfig{
			Concurrency:     4,
			DefaultExchange: "US",
			Watchlist:       []string{},
			RefreshSchedule: "",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. CLI flags are applied by the caller afterwards.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// .env is optional; existing environment variables win over it
	_ = godotenv.Load()

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DIVCAST_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DIVCAST_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DIVCAST_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("DIVCAST_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("DIVCAST_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if output := os.Getenv("DIVCAST_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitList(output)
	}

	// EODHD configuration (the provider's own variable is honoured as a fallback)
	if apiKey := os.Getenv("DIVCAST_EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	} else if apiKey := os.Getenv("EODHD_API_KEY"); apiKey != "" && config.EODHD.APIKey == "" {
		config.EODHD.APIKey = apiKey
	}
	if baseURL := os.Getenv("DIVCAST_EODHD_BASE_URL"); baseURL != "" {
		config.EODHD.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("DIVCAST_EODHD_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.Atoi(rateLimit); err == nil {
			config.EODHD.RateLimit = r
		}
	}

	// Cache configuration
	if enabled := os.Getenv("DIVCAST_CACHE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Cache.Enabled = b
		}
	}
	if ttl := os.Getenv("DIVCAST_CACHE_TTL"); ttl != "" {
		config.Cache.TTL = ttl
	}

	// Research configuration
	if concurrency := os.Getenv("DIVCAST_RESEARCH_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.Research.Concurrency = c
		}
	}
	if watchlist := os.Getenv("DIVCAST_RESEARCH_WATCHLIST"); watchlist != "" {
		config.Research.Watchlist = splitList(watchlist)
	}
	if schedule := os.Getenv("DIVCAST_RESEARCH_REFRESH_SCHEDULE"); schedule != "" {
		config.Research.RefreshSchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks struct constraints, duration strings and the refresh schedule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"eodhd.timeout":         c.EODHD.Timeout,
		"eodhd.initial_backoff": c.EODHD.InitialBackoff,
		"eodhd.max_backoff":     c.EODHD.MaxBackoff,
		"cache.ttl":             c.Cache.TTL,
		"cache.memory_ttl":      c.Cache.MemoryTTL,
	}
	for name, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}

	if c.Research.RefreshSchedule != "" {
		if err := ValidateSchedule(c.Research.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid research.refresh_schedule: %w", err)
		}
	}
	return nil
}

// RetryConfig builds the retry policy for upstream calls.
func (c EODHDConfig) RetryConfig() RetryConfig {
	cfg := NewDefaultRetryConfig()
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	cfg.InitialBackoff = parseDurationOr(c.InitialBackoff, cfg.InitialBackoff)
	cfg.MaxBackoff = parseDurationOr(c.MaxBackoff, cfg.MaxBackoff)
	return cfg
}

// TimeoutDuration returns the HTTP timeout.
func (c EODHDConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(c.Timeout, 30*time.Second)
}

// TTLDuration returns the persistent cache TTL.
func (c CacheConfig) TTLDuration() time.Duration {
	return parseDurationOr(c.TTL, 24*time.Hour)
}

// MemoryTTLDuration returns the in-process cache TTL.
func (c CacheConfig) MemoryTTLDuration() time.Duration {
	return parseDurationOr(c.MemoryTTL, 15*time.Minute)
}

// ValidateSchedule validates a cron schedule expression and ensures a minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	// Descriptors such as @daily are coarse enough already
	if strings.HasPrefix(schedule, "@") {
		return nil
	}

	minuteField := strings.Fields(schedule)[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
