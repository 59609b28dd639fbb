package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/models"
)

func (c *cli) registerCmd() *cobra.Command {
	var email, username, password, avatar string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asset, err := readAsset(avatar)
			if err != nil {
				return err
			}
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.repo.Register(cmd.Context(), email, username, password, asset)
			if err != nil {
				return err
			}
			return c.emit(cmd, user, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s (%s). Log in to continue.\n", user.Username, user.ID)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&username, "username", "", "Display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar image file")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := a.repo.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			user, err := a.repo.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cmd, user, func(w io.Writer) {
				if user != nil {
					fmt.Fprintf(w, "Logged in as %s\n", user.Username)
				}
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.repo.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.repo.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cmd, user, func(w io.Writer) {
				if user == nil {
					fmt.Fprintln(w, "Not logged in")
					return
				}
				printUser(w, user)
			})
		},
	}
}

// userProfile is the JSON shape of the user command.
type userProfile struct {
	*models.User
	Recipes []models.Recipe `json:"recipes"`
}

func (c *cli) userCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user profile and their recipes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			id := models.ID(args[0])
			user, err := a.repo.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			recipes, err := a.repo.ListUserRecipes(cmd.Context(), id, 0, 0)
			if err != nil {
				return err
			}
			return c.emit(cmd, userProfile{User: user, Recipes: recipes}, func(w io.Writer) {
				printUser(w, user)
				fmt.Fprintln(w)
				printRecipes(w, views(recipes))
			})
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	var username, bio, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit your profile",
		Long: `Edit the signed-in user's profile. Only the flags given are changed.

Examples:
  cookbook profile --bio "Люблю готовить"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update models.ProfileUpdate
			if cmd.Flags().Changed("username") {
				update.Username = &username
			}
			if cmd.Flags().Changed("bio") {
				update.Bio = &bio
			}
			if cmd.Flags().Changed("avatar-url") {
				update.Avatar = &avatar
			}

			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.repo.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			return c.emit(cmd, user, func(w io.Writer) { printUser(w, user) })
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "New display name")
	cmd.Flags().StringVar(&bio, "bio", "", "New bio")
	cmd.Flags().StringVar(&avatar, "avatar-url", "", "New avatar reference")
	return cmd
}
