package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/browse"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/query"
)

func (c *cli) recipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse, search, upload and delete recipes",
	}
	cmd.AddCommand(
		c.recipesListCmd(),
		c.recipesSearchCmd(),
		c.recipesFilterCmd(),
		c.recipesShowCmd(),
		c.recipesUploadCmd(),
		c.recipesDeleteCmd(),
		c.recipesByUserCmd(),
	)
	return cmd
}

func (c *cli) recipesListCmd() *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := a.repo.ListRecipes(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			return c.emit(cmd, recipes, func(w io.Writer) { printRecipes(w, views(recipes)) })
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of recipes to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of recipes (default page size)")
	return cmd
}

func (c *cli) recipesSearchCmd() *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search recipe titles and descriptions",
		Long: `Search recipes by free text.

Examples:
  cookbook recipes search паста
  cookbook recipes search "салат цезарь" --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := a.repo.SearchRecipes(cmd.Context(), strings.Join(args, " "), skip, limit)
			if err != nil {
				return err
			}
			return c.emit(cmd, recipes, func(w io.Writer) { printRecipes(w, views(recipes)) })
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of recipes to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of recipes (default page size)")
	return cmd
}

func (c *cli) recipesFilterCmd() *cobra.Command {
	var (
		text      string
		criteria  = query.DefaultCriteria()
		favorites []string
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter recipes by text, category, cook time, diet, difficulty and ingredients",
		Long: `Filter recipes the way the browse view does. Sets match "any of"; every
given filter must hold.

Examples:
  cookbook recipes filter --category Ужин --max-time 30
  cookbook recipes filter --ingredient сыр --ingredient бекон
  cookbook recipes filter --query паста --favorite 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			b := a.browser()
			defer b.Close()

			for _, id := range favorites {
				b.ToggleFavorite(models.ID(id))
			}
			if err := b.SetFilters(criteria); err != nil {
				return err
			}
			if err := b.Search(cmd.Context(), text); err != nil {
				return err
			}
			for all && b.HasMore() {
				if err := b.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}

			visible := b.Visible()
			return c.emit(cmd, visible, func(w io.Writer) {
				if b.Status() == browse.Empty {
					fmt.Fprintln(w, "No recipes match the filters.")
					return
				}
				printRecipes(w, visible)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&text, "query", "q", "", "Free text to search for")
	f.StringSliceVar(&criteria.Categories, "category", nil, "Category (repeatable)")
	f.StringSliceVar(&criteria.Dietary, "dietary", nil, "Dietary label (repeatable)")
	f.StringSliceVar(&criteria.Difficulty, "difficulty", nil, "Difficulty (repeatable)")
	f.StringSliceVar(&criteria.Ingredients, "ingredient", nil, "Ingredient name fragment (repeatable)")
	f.IntVar(&criteria.CookTime.Min, "min-time", query.MinCookTime, "Minimum cook time in minutes")
	f.IntVar(&criteria.CookTime.Max, "max-time", query.MaxCookTime, "Maximum cook time in minutes")
	f.StringSliceVar(&favorites, "favorite", nil, "Recipe id to mark as favorite (repeatable)")
	f.BoolVar(&all, "all", false, "Fetch every page before filtering")
	return cmd
}

// recipeDetail is the JSON shape of recipes show.
type recipeDetail struct {
	*models.Recipe
	Author     *models.User `json:"author,omitempty"`
	IsFavorite bool         `json:"is_favorite"`
}

func (c *cli) recipesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe with its ingredients, steps and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			b := a.browser()
			defer b.Close()

			d, err := b.Detail(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			return c.emit(cmd, recipeDetail{Recipe: d.Recipe, Author: d.Author, IsFavorite: d.IsFavorite}, func(w io.Writer) {
				printDetail(w, d)
			})
		},
	}
}

func printDetail(w io.Writer, d *browse.Detail) {
	r := d.Recipe
	fmt.Fprintln(w, r.Title)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Category: %s  Time: %d min  Servings: %d  Rating: %s (%d)\n",
		r.Category, r.CookTime, r.Servings, r.RatingLabel(), r.ReviewCount)
	if d.Author != nil {
		fmt.Fprintf(w, "By: %s\n", d.Author.Username)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}

	fmt.Fprintln(w, "\nIngredients:")
	for _, line := range r.IngredientLines() {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	fmt.Fprintln(w, "\nSteps:")
	for _, s := range r.Steps {
		fmt.Fprintf(w, "  %d. %s\n", s.Order, s.Text)
	}
	fmt.Fprintln(w, "\nReviews:")
	printReviews(w, r.Reviews)
}

func (c *cli) recipesUploadCmd() *cobra.Command {
	var file, image string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a new recipe from a JSON draft",
		Long: `Upload a recipe. The draft file holds title, description, category,
difficulty, tags, cook_time, servings, ingredients and steps.

Examples:
  cookbook recipes upload --file borscht.json --image borscht.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read draft: %w", err)
			}
			var draft models.RecipeDraft
			if err := json.Unmarshal(data, &draft); err != nil {
				return apperr.Validation(fmt.Sprintf("draft is not valid JSON: %v", err))
			}
			asset, err := readAsset(image)
			if err != nil {
				return err
			}

			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			recipe, err := a.repo.CreateRecipe(cmd.Context(), draft, asset)
			if err != nil {
				return err
			}
			return c.emit(cmd, recipe, func(w io.Writer) {
				fmt.Fprintf(w, "Created recipe %s: %s\n", recipe.ID, recipe.Title)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON recipe draft (required)")
	cmd.Flags().StringVar(&image, "image", "", "Image file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) recipesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your recipes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.repo.DeleteRecipe(cmd.Context(), models.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) recipesByUserCmd() *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "by <user-id>",
		Short: "List recipes a user has uploaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := a.repo.ListUserRecipes(cmd.Context(), models.ID(args[0]), skip, limit)
			if err != nil {
				return err
			}
			return c.emit(cmd, recipes, func(w io.Writer) { printRecipes(w, views(recipes)) })
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of recipes to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of recipes (default page size)")
	return cmd
}
