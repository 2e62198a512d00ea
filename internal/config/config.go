// Package config loads mosaic settings from defaults, an optional mosaic.yaml and
// MOSAIC_ environment variables, in increasing order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
)

// EnvPrefix prefixes every environment override, e.g. MOSAIC_SERVER_PORT.
const EnvPrefix = "MOSAIC"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverFile   = "file"
)

// Config holds application configuration.
type Config struct {
	Log       LogConfig
	Workspace WorkspaceConfig
	Server    ServerConfig
	Store     StoreConfig
	// Keys overrides key bindings by command name, see keymap.Commands.
	Keys map[string][]string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// WorkspaceConfig holds engine settings.
type WorkspaceConfig struct {
	DefaultTool string `mapstructure:"default_tool"`
	CacheKeying string `mapstructure:"cache_keying"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port    int
	CORS    bool
	Metrics bool
}

// StoreConfig selects where the server keeps workspaces.
type StoreConfig struct {
	Driver  string
	TTL     time.Duration
	LockTTL time.Duration `mapstructure:"lock_ttl"`
	Redis   RedisConfig
	File    FileConfig
	// Encryption seals cached tool state at rest when Key is set.
	Encryption EncryptionConfig
	// Redact lists patterns of tool state fields that are masked before saving.
	Redact []string
}

// FileConfig holds settings of the file store. An empty Dir means a directory
// under the system temp dir.
type FileConfig struct {
	Dir string
}

// EncryptionConfig holds base64 encoded AES-256 keys.
type EncryptionConfig struct {
	Key          string
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Load reads configuration from file and env. An empty path searches for mosaic.yaml
// in the working directory and in $HOME/.config/mosaic, or uses $MOSAIC_CONFIG.
// A missing file is not an error; an unreadable one is.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("log.level", "info")
	v.SetDefault("workspace.default_tool", string(domain.DefaultTool))
	v.SetDefault("workspace.cache_keying", string(runtime.KeyByPath))
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors", false)
	v.SetDefault("server.metrics", true)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.ttl", time.Hour)
	v.SetDefault("store.lock_ttl", 30*time.Second)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "mosaic:")
	v.SetDefault("store.file.dir", "")
	v.SetDefault("store.encryption.key", "")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "mosaic"))
		v.SetConfigName("mosaic")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the application cannot use.
func (c Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := domain.ParseToolKind(c.Workspace.DefaultTool); err != nil {
		return fmt.Errorf("workspace.default_tool: %w", err)
	}
	if _, err := runtime.ParseCacheKeying(c.Workspace.CacheKeying); err != nil {
		return fmt.Errorf("workspace.cache_keying: %w", err)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverRedis, DriverFile:
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultTool parses Workspace.DefaultTool.
func (c Config) DefaultTool() domain.ToolKind {
	kind, err := domain.ParseToolKind(c.Workspace.DefaultTool)
	if err != nil {
		return domain.DefaultTool
	}
	return kind
}

// CacheKeying parses Workspace.CacheKeying.
func (c Config) CacheKeying() runtime.CacheKeying {
	k, err := runtime.ParseCacheKeying(c.Workspace.CacheKeying)
	if err != nil {
		return runtime.KeyByPath
	}
	return k
}

// EncryptionKeys decodes the store encryption keys. A nil active key means
// encryption is off.
func (c Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	enc := c.Store.Encryption
	if enc.Key == "" {
		if len(enc.FallbackKeys) > 0 {
			return nil, nil, errors.New("store.encryption: fallback_keys set without a key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey(enc.Key); err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	for i, k := range enc.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(key))
	}
	return key, nil
}
