package workerpool

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/renholt/go-worker-pool/core"
)

// Config describes one runtime: the pool and the collaborators around
// it. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// PoolSize is the initial worker count. Zero means the hardware
	// thread count; negative values are rejected.
	PoolSize int

	// PoolName labels log records and metric series.
	PoolName string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// UserAgent is sent by the HTTP client on every request.
	UserAgent string

	// ConnectTimeout bounds connection establishment for the HTTP
	// client; RequestTimeout bounds whole requests.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		PoolSize:       0,
		PoolName:       "workerpool",
		LogLevel:       "info",
		UserAgent:      "go-worker-pool/" + Version,
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool size %d", core.ErrInvalidConfig, c.PoolSize)
	}
	if _, err := core.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ConnectTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", core.ErrInvalidConfig)
	}
	return nil
}

// fileConfig is the on-disk TOML shape. Timeouts are integral
// milliseconds, matching the embedding conventions this library grew out
// of.
type fileConfig struct {
	PoolSize         int    `toml:"pool_size"`
	PoolName         string `toml:"pool_name"`
	LogLevel         string `toml:"log_level"`
	UserAgent        string `toml:"user_agent"`
	ConnectTimeoutMs int    `toml:"connection_timeout_ms"`
	RequestTimeoutMs int    `toml:"request_timeout_ms"`
}

// LoadConfig reads a TOML configuration file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Config{}, fmt.Errorf("workerpool: load config: %w", err)
	}

	if fc.PoolSize != 0 {
		cfg.PoolSize = fc.PoolSize
	}
	if fc.PoolName != "" {
		cfg.PoolName = fc.PoolName
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.ConnectTimeoutMs != 0 {
		cfg.ConnectTimeout = time.Duration(fc.ConnectTimeoutMs) * time.Millisecond
	}
	if fc.RequestTimeoutMs != 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeoutMs) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
