// Package config loads runtime configuration for the diagramkit binary.
//
// Resolution order, lowest precedence first: built-in defaults, an optional
// TOML config file, environment variables. A .env file in the working
// directory is folded into the environment before variables are read, so
// local development needs no exported shell state.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"diagramkit/pkg/cache"
	"diagramkit/pkg/errors"
)

// Environment variable names. Each overrides the corresponding file setting.
const (
	EnvAddr         = "DIAGRAMKIT_ADDR"
	EnvLogLevel     = "DIAGRAMKIT_LOG_LEVEL"
	EnvCacheBackend = "DIAGRAMKIT_CACHE_BACKEND"
	EnvCacheDir     = "DIAGRAMKIT_CACHE_DIR"
	EnvCacheSize    = "DIAGRAMKIT_CACHE_SIZE"
	EnvRedisAddr    = "DIAGRAMKIT_REDIS_ADDR"
	EnvRedisPass    = "DIAGRAMKIT_REDIS_PASSWORD"
	EnvRedisDB      = "DIAGRAMKIT_REDIS_DB"
)

// Cache backend names accepted in [CacheConfig].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
}

// CacheConfig configures the preview artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`   // file backend
	Size    int         `toml:"size"`  // memory backend, max entries
	TTL     Duration    `toml:"ttl"`   // artifact expiration
	Redis   RedisConfig `toml:"redis"` // redis backend
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxBodyBytes:    4 << 20, // 4 MiB of chat content is plenty
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Size:    256,
			TTL:     Duration(cache.DefaultTTL),
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment apply; a named file that does not exist is an
// error, so a typoed --config flag fails loudly.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config file %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.Size = n
		}
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv(EnvRedisPass); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Redis.DB = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %q (must be one of: file, memory, redis, none)",
			c.Cache.Backend)
	}
	if c.Cache.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache size must be positive")
	}
	return nil
}

// OpenCache constructs the cache backend named by the configuration. The
// file backend resolves its directory lazily so the default config works
// without any filesystem setup beforehand.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(c.Cache.Size)
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis.Addr, c.Cache.Redis.Password, c.Cache.Redis.DB)
	case BackendFile:
		dir := c.Cache.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCache, err, "resolve cache directory")
			}
			dir = filepath.Join(base, "diagramkit")
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %q", c.Cache.Backend)
}
