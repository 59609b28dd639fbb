package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/query"
)

// emit writes v as indented JSON when --json is set, otherwise calls text.
func (c *cli) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if c.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

func printRecipes(w io.Writer, recipes []query.RecipeView) {
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTIME\tRATING\t")
	for _, r := range recipes {
		title := r.Title
		if r.IsFavorite {
			title = "★ " + title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\t%s\t\n", r.ID, title, r.Category, r.CookTime, r.RatingLabel())
	}
	tw.Flush()
}

func printReviews(w io.Writer, reviews []models.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return
	}
	for _, rv := range reviews {
		fmt.Fprintf(w, "%s %s  %s\n", stars(rv.Rating), rv.CreatedAt.Format("2006-01-02"), rv.Comment)
	}
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "%s (%s)\n", u.Username, u.Email)
	fmt.Fprintf(w, "id: %s\n", u.ID)
	if u.Bio != "" {
		fmt.Fprintf(w, "bio: %s\n", u.Bio)
	}
	if u.Avatar != "" && !strings.HasPrefix(u.Avatar, "data:") {
		fmt.Fprintf(w, "avatar: %s\n", u.Avatar)
	}
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func views(recipes []models.Recipe) []query.RecipeView {
	out := make([]query.RecipeView, len(recipes))
	for i, r := range recipes {
		out[i] = query.RecipeView{Recipe: r}
	}
	return out
}

// readAsset loads an image file for upload; an empty path means none.
func readAsset(path string) (*assets.Asset, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &assets.Asset{Filename: filepath.Base(path), Data: data}, nil
}
