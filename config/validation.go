package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	storageDrivers = map[string]bool{"memory": true, "sqlite": true, "postgres": true, "redis": true}
	assetDrivers   = map[string]bool{"inline": true, "s3": true}
	logFormats     = map[string]bool{"console": true, "json": true}
)

// ValidateConfig checks the configuration and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errors []string
	add := func(field, msg string) {
		errors = append(errors, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.Backend {
	case BackendRemote:
		if cfg.API.BaseURL == "" {
			add("api.base_url", "required when backend is remote")
		} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("api.base_url", "must be an absolute URL")
		}
	case BackendLocal:
		if !storageDrivers[cfg.Storage.Driver] {
			add("storage.driver", fmt.Sprintf("unknown driver %q", cfg.Storage.Driver))
		}
		if cfg.Storage.Driver == "postgres" && cfg.Storage.DSN == "" {
			add("storage.dsn", "required for the postgres driver")
		}
		if cfg.Storage.Driver == "redis" && cfg.Redis.URL == "" && cfg.Redis.Host == "" {
			add("redis.url", "redis url or host is required for the redis driver")
		}
		if cfg.Auth.JWTSecret == "" {
			add("auth.jwt_secret", "jwt_secret secret is required")
		}
		if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 14 {
			add("auth.bcrypt_cost", "must be between 4 and 14")
		}
	default:
		add("backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
	}

	if !assetDrivers[cfg.Assets.Driver] {
		add("assets.driver", fmt.Sprintf("unknown driver %q", cfg.Assets.Driver))
	}
	if cfg.Assets.Driver == "s3" && cfg.Assets.Bucket == "" {
		add("assets.bucket", "required for the s3 driver")
	}
	if !logFormats[cfg.Log.Format] {
		add("log.format", fmt.Sprintf("unknown format %q", cfg.Log.Format))
	}
	if cfg.Search.Debounce < 0 {
		add("search.debounce", "must not be negative")
	}
	if cfg.Search.PageSize < 0 || cfg.Search.PageSize > 100 {
		add("search.page_size", "must be between 1 and 100")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
