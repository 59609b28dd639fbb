package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/browse"
	"github.com/pageza/cookbook/internal/database"
	"github.com/pageza/cookbook/internal/logging"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/repository/local"
	"github.com/pageza/cookbook/internal/repository/remote"
	"github.com/pageza/cookbook/internal/storage"
)

const redisKeyPrefix = "cookbook:"

// app is the wired application behind every command.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	repo repository.Repository
	// local is set when the local backend is active.
	local *local.Repository
	// db is set when the local store is sqlite or postgres.
	db      *gorm.DB
	store   storage.KeyValueStore
	assets  assets.Store
	closers []func() error
}

// load builds the application once per invocation.
func (c *cli) load(ctx context.Context) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	if err := a.wire(ctx, c.sessionFile); err != nil {
		_ = a.close()
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.close()
	c.app = nil
	return err
}

func (a *app) wire(ctx context.Context, sessionFile string) error {
	store, err := assetStore(ctx, a.cfg.Assets, a.log)
	if err != nil {
		return err
	}
	a.assets = store

	switch a.cfg.Backend {
	case config.BackendRemote:
		if sessionFile == "" {
			sessionFile, err = defaultSessionFile()
			if err != nil {
				return err
			}
		}
		client, err := remote.New(a.cfg.API.BaseURL, remote.Options{
			Session: NewFileSession(sessionFile),
			Timeout: a.cfg.API.Timeout,
			Logger:  a.log.Named("remote"),
		})
		if err != nil {
			return err
		}
		a.repo = client
	default:
		kv, err := a.openStore()
		if err != nil {
			return err
		}
		a.store = kv
		a.local = local.New(kv, local.Options{
			Session:    local.NewStoredSession(kv),
			Assets:     a.assets,
			Secret:     []byte(a.cfg.Auth.JWTSecret),
			TokenTTL:   a.cfg.Auth.TokenTTL,
			BcryptCost: a.cfg.Auth.BcryptCost,
			Logger:     a.log.Named("local"),
		})
		a.repo = a.local
	}
	return nil
}

// openStore connects the key-value store behind the local repository.
func (a *app) openStore() (storage.KeyValueStore, error) {
	switch a.cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		client, err := database.NewRedisClient(a.cfg.Redis, a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return storage.NewRedisStore(client, redisKeyPrefix), nil
	default:
		db, err := database.Open(a.cfg.Storage, a.log)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, func() error { return database.Close(db) })
		if err := database.Migrate(db, "", a.log); err != nil {
			return nil, err
		}
		return storage.NewGormStore(db), nil
	}
}

func assetStore(ctx context.Context, cfg config.AssetsConfig, log *zap.Logger) (assets.Store, error) {
	if cfg.Driver != "s3" {
		return assets.InlineStore{}, nil
	}
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure s3: %w", err)
	}
	return assets.NewS3StoreFromConfig(s3Cfg, log.Named("assets")), nil
}

// requireLocal fails commands that only make sense against the local store.
func (a *app) requireLocal(command string) error {
	if a.local == nil {
		return fmt.Errorf("%s requires the local backend", command)
	}
	return nil
}

func (a *app) browser() *browse.Browser {
	return browse.New(a.repo, browse.Options{
		Debounce: a.cfg.Search.Debounce,
		PageSize: a.cfg.Search.PageSize,
		Logger:   a.log,
	})
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	_ = a.log.Sync()
	return errors.Join(errs...)
}

func defaultSessionFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "cookbook", "session"), nil
}
