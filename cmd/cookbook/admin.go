package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/apitest"
	"github.com/pageza/cookbook/internal/database"
	"github.com/pageza/cookbook/internal/middleware"
	"github.com/pageza/cookbook/internal/server"
)

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample recipes into an empty local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireLocal("seed"); err != nil {
				return err
			}
			seeded, err := a.local.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Seeded sample recipes")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Store already has recipes, nothing to seed")
			}
			return nil
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the storage schema and apply SQL migrations",
		Long: `Create the key-value table of the sqlite or postgres store. On postgres,
*.sql files in --dir that have not run yet are applied in name order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if a.db == nil {
				return errors.New("migrate requires the sqlite or postgres storage driver")
			}
			if err := database.Migrate(a.db, dir, a.log); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of *.sql migrations (postgres only)")
	return cmd
}

func (c *cli) fixtureServerCmd() *cobra.Command {
	var (
		addr     string
		origins  []string
		throttle bool
	)
	cmd := &cobra.Command{
		Use:   "fixture-server",
		Short: "Serve the REST API over the local store for development",
		Long: `Serve the cookbook REST API backed by the local store, so the remote
backend can be exercised without the production service.

Examples:
  cookbook seed && cookbook fixture-server --addr :8000 --origin http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireLocal("fixture-server"); err != nil {
				return err
			}

			opts := apitest.Options{
				Assets:       a.assets,
				AllowOrigins: origins,
				Logger:       a.log.Named("fixture"),
			}
			if throttle {
				client, err := database.NewRedisClient(a.cfg.Redis, a.log)
				if err != nil {
					return err
				}
				a.closers = append(a.closers, client.Close)
				opts.LoginLimiter = middleware.NewLoginRateLimiter(client, a.log.Named("ratelimit"))
			}

			if !config.IsDevelopment() {
				gin.SetMode(gin.ReleaseMode)
			}
			router := apitest.NewServer(a.local, opts).Router(opts)
			a.log.Info("starting fixture server", zap.String("addr", addr), zap.Strings("origins", origins))
			return server.New(addr, router, a.log).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed CORS origin (repeatable)")
	cmd.Flags().BoolVar(&throttle, "throttle-logins", false, "Rate limit /auth/token per client via redis")
	return cmd
}
