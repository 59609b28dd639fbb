package query

import (
	"strings"

	"github.com/pageza/cookbook/internal/models"
)

// RecipeView is a recipe annotated for display.
type RecipeView struct {
	models.Recipe
	IsFavorite bool `json:"is_favorite"`
}

// Apply returns the candidates that satisfy text and criteria, in their
// original order, each annotated with its favorite state. Blank text with
// inactive criteria returns every candidate. An inverted cook time range
// matches nothing.
func Apply(candidates []models.Recipe, text string, criteria Criteria, favorites *Favorites) []RecipeView {
	q := strings.ToLower(strings.TrimSpace(text))
	browse := q == "" && !criteria.Active()

	out := make([]RecipeView, 0, len(candidates))
	for i := range candidates {
		recipe := &candidates[i]
		if !browse && !(matchesText(recipe, q) && matchesCriteria(recipe, criteria)) {
			continue
		}
		out = append(out, RecipeView{Recipe: *recipe, IsFavorite: favorites.Has(recipe.ID)})
	}
	return out
}

func matchesText(r *models.Recipe, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

func matchesCriteria(r *models.Recipe, c Criteria) bool {
	if !c.CookTime.Contains(r.CookTime) {
		return false
	}
	tags := r.TagSet()
	if !intersects(c.Categories, tags) || !intersects(c.Dietary, tags) || !intersects(c.Difficulty, tags) {
		return false
	}
	return matchesIngredients(r, c.Ingredients)
}

// intersects is true when selected is empty or shares a value with tags.
func intersects(selected, tags []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		for _, t := range tags {
			if s == t {
				return true
			}
		}
	}
	return false
}

// matchesIngredients is true when no ingredient is selected or some selected
// ingredient occurs, case-insensitively, inside some ingredient name.
func matchesIngredients(r *models.Recipe, selected []string) bool {
	chosen := false
	for _, s := range selected {
		needle := strings.ToLower(strings.TrimSpace(s))
		if needle == "" {
			continue
		}
		chosen = true
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), needle) {
				return true
			}
		}
	}
	return !chosen
}
