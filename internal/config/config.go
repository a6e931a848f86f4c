// Package config loads client and server settings.
//
// Files are optional: a missing file yields defaults. TOML files are parsed with
// go-toml; .json, .jsonc and .hujson files may carry comments and trailing commas.
// Environment variables override file values, and command-line flags override both.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
)

// Переменные окружения
const (
	EnvServerURL = "JOBCACHE_SERVER"
	EnvDBPath    = "JOBCACHE_DB"
	EnvDSN       = "JOBCACHE_DSN"
	EnvJWTSecret = "JOBCACHE_JWT_SECRET"
)

const (
	DefaultClientConfigPath = "~/.config/jobcache/client.toml"
	DefaultServerConfigPath = "~/.config/jobcache/server.toml"

	defaultServerURL     = "http://localhost:8080"
	defaultDBPath        = "~/.local/share/jobcache/cache.db"
	defaultMaxAge        = 5 * time.Minute
	defaultCoalesceDelay = 100 * time.Millisecond
	defaultSyncInterval  = time.Minute
	defaultLogLevel      = "info"

	defaultAddr       = ":8080"
	defaultDriver     = "sqlite"
	defaultDSN        = "jobcache.db"
	defaultAccessTTL  = 24 * time.Hour
	defaultRateLimit  = 100
	defaultRateWindow = time.Minute
)

// ClientConfig настройки CLI клиента
type ClientConfig struct {
	ServerURL     string
	DBPath        string
	LogLevel      string
	MaxAge        time.Duration
	CoalesceDelay time.Duration
	SyncInterval  time.Duration
	Optimistic    bool
}

// ServerConfig настройки сервера записей
type ServerConfig struct {
	Addr       string
	Driver     string // sqlite или pgx
	DSN        string
	JWTSecret  string
	LogLevel   string
	AccessTTL  time.Duration
	RateWindow time.Duration
	RateLimit  int
}

type rawClient struct {
	ServerURL     string `toml:"server_url" json:"server_url"`
	DBPath        string `toml:"db_path" json:"db_path"`
	LogLevel      string `toml:"log_level" json:"log_level"`
	MaxAge        string `toml:"max_age" json:"max_age"`
	CoalesceDelay string `toml:"coalesce_delay" json:"coalesce_delay"`
	SyncInterval  string `toml:"sync_interval" json:"sync_interval"`
	Optimistic    *bool  `toml:"optimistic" json:"optimistic"`
}

type rawServer struct {
	Addr       string `toml:"addr" json:"addr"`
	Driver     string `toml:"driver" json:"driver"`
	DSN        string `toml:"dsn" json:"dsn"`
	JWTSecret  string `toml:"jwt_secret" json:"jwt_secret"`
	LogLevel   string `toml:"log_level" json:"log_level"`
	AccessTTL  string `toml:"access_ttl" json:"access_ttl"`
	RateWindow string `toml:"rate_window" json:"rate_window"`
	RateLimit  int    `toml:"rate_limit" json:"rate_limit"`
}

// DefaultClient returns the client defaults
func DefaultClient() ClientConfig {
	return ClientConfig{
		ServerURL:     defaultServerURL,
		DBPath:        mustExpand(defaultDBPath),
		LogLevel:      defaultLogLevel,
		MaxAge:        defaultMaxAge,
		CoalesceDelay: defaultCoalesceDelay,
		SyncInterval:  defaultSyncInterval,
		Optimistic:    true,
	}
}

// DefaultServer returns the server defaults
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:       defaultAddr,
		Driver:     defaultDriver,
		DSN:        defaultDSN,
		LogLevel:   defaultLogLevel,
		AccessTTL:  defaultAccessTTL,
		RateLimit:  defaultRateLimit,
		RateWindow: defaultRateWindow,
	}
}

// LoadClient reads the client config, falling back to defaults when the file is missing
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClient()

	var raw rawClient
	found, err := load(path, DefaultClientConfigPath, &raw)
	if err != nil {
		return ClientConfig{}, err
	}

	if found {
		if v := strings.TrimSpace(raw.ServerURL); v != "" {
			cfg.ServerURL = v
		}
		if v := strings.TrimSpace(raw.DBPath); v != "" {
			cfg.DBPath = v
		}
		if v := strings.TrimSpace(raw.LogLevel); v != "" {
			cfg.LogLevel = v
		}
		if err := parseDuration("max_age", raw.MaxAge, &cfg.MaxAge); err != nil {
			return ClientConfig{}, err
		}
		if err := parseDuration("coalesce_delay", raw.CoalesceDelay, &cfg.CoalesceDelay); err != nil {
			return ClientConfig{}, err
		}
		if err := parseDuration("sync_interval", raw.SyncInterval, &cfg.SyncInterval); err != nil {
			return ClientConfig{}, err
		}
		if raw.Optimistic != nil {
			cfg.Optimistic = *raw.Optimistic
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.DBPath = v
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.DBPath = mustExpand(cfg.DBPath)

	return cfg, nil
}

// LoadServer reads the server config, falling back to defaults when the file is missing
func LoadServer(path string) (ServerConfig, error) {
	cfg := DefaultServer()

	var raw rawServer
	found, err := load(path, DefaultServerConfigPath, &raw)
	if err != nil {
		return ServerConfig{}, err
	}

	if found {
		if v := strings.TrimSpace(raw.Addr); v != "" {
			cfg.Addr = v
		}
		if v := strings.TrimSpace(raw.Driver); v != "" {
			cfg.Driver = v
		}
		if v := strings.TrimSpace(raw.DSN); v != "" {
			cfg.DSN = v
		}
		if v := strings.TrimSpace(raw.JWTSecret); v != "" {
			cfg.JWTSecret = v
		}
		if v := strings.TrimSpace(raw.LogLevel); v != "" {
			cfg.LogLevel = v
		}
		if raw.RateLimit > 0 {
			cfg.RateLimit = raw.RateLimit
		}
		if err := parseDuration("access_ttl", raw.AccessTTL, &cfg.AccessTTL); err != nil {
			return ServerConfig{}, err
		}
		if err := parseDuration("rate_window", raw.RateWindow, &cfg.RateWindow); err != nil {
			return ServerConfig{}, err
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvDSN)); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.JWTSecret = v
	}

	return cfg, nil
}

// Validate checks settings the server cannot start without
func (c ServerConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unsupported driver %q (want sqlite or pgx)", c.Driver)
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 bytes (set %s)", EnvJWTSecret)
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("access_ttl must be positive")
	}
	return nil
}

// load decodes the config file into raw; found is false when the file does not exist
func load(path, defaultPath string, raw any) (bool, error) {
	resolved, err := resolvePath(path, defaultPath)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".json", ".jsonc", ".hujson":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		if err := json.Unmarshal(standardized, raw); err != nil {
			return false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	default:
		if err := toml.Unmarshal(data, raw); err != nil {
			return false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	return true, nil
}

func parseDuration(name, value string, dst *time.Duration) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", name, value)
	}
	*dst = d
	return nil
}

func resolvePath(path, defaultPath string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// ParseLogLevel переводит имя уровня (debug, info, warn, error) в slog.Level
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
