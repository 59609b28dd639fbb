package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto configuration keys: COOKBOOK_STORAGE_DRIVER -> storage.driver.
const EnvPrefix = "COOKBOOK_"

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds all configuration for the application
type Config struct {
	// Backend selects the repository implementation: "local" or "remote"
	Backend string `koanf:"backend"`

	API     APIConfig     `koanf:"api"`
	Storage StorageConfig `koanf:"storage"`
	Redis   RedisConfig   `koanf:"redis"`
	Auth    AuthConfig    `koanf:"auth"`
	Assets  AssetsConfig  `koanf:"assets"`
	Log     LogConfig     `koanf:"log"`
	Search  SearchConfig  `koanf:"search"`
}

// APIConfig configures the remote repository
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig configures the key-value store behind the local repository
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres, redis
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuthConfig configures local session credentials
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	BcryptCost int           `koanf:"bcrypt_cost"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
}

// AssetsConfig selects where uploaded images are stored
type AssetsConfig struct {
	// Driver is "inline" (data URLs) or "s3"
	Driver string `koanf:"driver"`
	Bucket string `koanf:"bucket"`
	Region string `koanf:"region"`
	Prefix string `koanf:"prefix"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SearchConfig tunes the interactive browse/search state
type SearchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
	PageSize int           `koanf:"page_size"`
}

// sections lists the top-level keys whose environment variables split on the
// first underscore after the prefix.
var sections = []string{"api", "storage", "redis", "auth", "assets", "log", "search"}

// LoadConfig loads configuration from an optional YAML file, then overrides it
// with COOKBOOK_* environment variables and secrets from SECRETS_DIR.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
	}

	applyDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps COOKBOOK_STORAGE_DRIVER to storage.driver and COOKBOOK_BACKEND
// to backend.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendLocal
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "cookbook.db"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 60 * time.Minute
	}
	if cfg.Auth.JWTSecret == "" && !IsProduction() {
		cfg.Auth.JWTSecret = "cookbook-local-development-secret"
	}
	if cfg.Assets.Driver == "" {
		cfg.Assets.Driver = "inline"
	}
	if cfg.Assets.Prefix == "" {
		cfg.Assets.Prefix = "recipe-images"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Search.Debounce == 0 {
		cfg.Search.Debounce = 300 * time.Millisecond
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 50
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
