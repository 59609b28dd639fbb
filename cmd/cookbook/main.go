// Package main implements the cookbook CLI: browse, search and filter
// recipes, manage reviews, accounts and a shopping cart against the local
// store or the remote API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/apperr"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperr.Message(err))
		os.Exit(1)
	}
}

// run executes one command line and releases every connection it opened.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

// cli holds the global flags and the lazily built application.
type cli struct {
	configPath  string
	sessionFile string
	outputJSON  bool
	app         *app
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cookbook",
		Short: "Share, search and cook recipes",
		Long: `cookbook browses and manages a shared recipe collection.

The backend is chosen by configuration: "local" keeps every collection in a
key-value store (memory, sqlite, postgres or redis), "remote" talks to the
cookbook REST API.

Examples:
  # List recipes
  cookbook recipes list

  # Search, then filter by category and cook time
  cookbook recipes filter --query паста --category Ужин --max-time 30

  # Use the remote API
  COOKBOOK_BACKEND=remote COOKBOOK_API_BASE_URL=http://localhost:8000 cookbook recipes list`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&c.sessionFile, "session-file", "", "File holding the remote session credential (defaults to the user config dir)")
	root.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "Output results as JSON")

	root.AddCommand(
		c.recipesCmd(),
		c.reviewsCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.userCmd(),
		c.profileCmd(),
		c.cartCmd(),
		c.seedCmd(),
		c.migrateCmd(),
		c.fixtureServerCmd(),
	)
	return root
}
