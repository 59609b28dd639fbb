package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/models"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Build a shopping list from recipes",
	}
	cmd.AddCommand(c.cartAddCmd())
	return cmd
}

func (c *cli) cartAddCmd() *cobra.Command {
	var export bool
	cmd := &cobra.Command{
		Use:   "add <recipe-id>...",
		Short: "Merge the ingredients of recipes into a shopping list",
		Long: `Merge the ingredients of the given recipes into one shopping list,
grouped by category. Items with the same name are listed once.

Examples:
  cookbook cart add 1 3 --export > list.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			b := a.browser()
			defer b.Close()

			for _, id := range args {
				recipe, err := a.repo.GetRecipe(cmd.Context(), models.ID(id))
				if err != nil {
					return err
				}
				b.AddToCart(recipe)
			}

			cart := b.Cart()
			if export {
				fmt.Fprintln(cmd.OutOrStdout(), cart.Export())
				return nil
			}
			return c.emit(cmd, cart.Items(), func(w io.Writer) {
				for i, group := range cart.ByCategory() {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "%s:\n", group.Category)
					for _, it := range group.Items {
						if it.Quantity == "" {
							fmt.Fprintf(w, "  ☐ %s\n", it.Name)
						} else {
							fmt.Fprintf(w, "  ☐ %s - %s\n", it.Name, it.Quantity)
						}
					}
				}
			})
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "Print the plain-text checklist")
	return cmd
}
