package local

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
)

func (r *Repository) ListRecipes(ctx context.Context, skip, limit int) ([]models.Recipe, error) {
	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Page(recipes, skip, limit), nil
}

func (r *Repository) SearchRecipes(ctx context.Context, query string, skip, limit int) ([]models.Recipe, error) {
	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return repository.Page(recipes, skip, limit), nil
	}

	matches := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if matchesSearch(&recipe, q) {
			matches = append(matches, recipe)
		}
	}
	return repository.Page(matches, skip, limit), nil
}

// matchesSearch reports whether the lower-cased q occurs in the title,
// description, category or any ingredient name.
func matchesSearch(recipe *models.Recipe, q string) bool {
	if strings.Contains(strings.ToLower(recipe.Title), q) ||
		strings.Contains(strings.ToLower(recipe.Description), q) ||
		strings.Contains(strings.ToLower(recipe.Category), q) {
		return true
	}
	for _, ing := range recipe.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), q) {
			return true
		}
	}
	return false
}

func (r *Repository) GetRecipe(ctx context.Context, id models.ID) (*models.Recipe, error) {
	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfRecipe(recipes, id)
	if idx < 0 {
		return nil, apperr.NotFound("recipe not found")
	}
	recipe := recipes[idx]

	reviews, err := r.reviewsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.ApplyReviews(reviews)
	return &recipe, nil
}

func (r *Repository) CreateRecipe(ctx context.Context, draft models.RecipeDraft, image *assets.Asset) (*models.Recipe, error) {
	draft, err := repository.NormalizeDraft(draft)
	if err != nil {
		return nil, err
	}
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if image != nil {
		ref, err := r.assets.Put(ctx, assets.RecipeImage, image)
		if err != nil {
			return nil, err
		}
		draft.Image = ref
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}

	author := user.ID
	recipe := models.Recipe{
		ID:          models.NewID(),
		Title:       draft.Title,
		Description: draft.Description,
		Image:       draft.Image,
		Category:    draft.Category,
		Difficulty:  draft.Difficulty,
		Tags:        draft.Tags,
		CookTime:    draft.CookTime,
		Servings:    draft.Servings,
		Ingredients: draft.Ingredients,
		Steps:       draft.Steps,
		AuthorID:    &author,
		CreatedAt:   r.now().UTC(),
	}
	recipes = append(recipes, recipe)
	if err := r.save(ctx, RecipesKey, recipes); err != nil {
		return nil, err
	}

	r.log.Info("recipe created", zap.String("recipe_id", recipe.ID.String()), zap.String("author_id", author.String()))
	return &recipe, nil
}

func (r *Repository) DeleteRecipe(ctx context.Context, id models.ID) error {
	user, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return err
	}
	idx := indexOfRecipe(recipes, id)
	if idx < 0 {
		return apperr.NotFound("recipe not found")
	}
	if !recipes[idx].IsAuthoredBy(user.ID) {
		return apperr.Forbidden("only the author can delete this recipe")
	}

	// Reviews are removed first so a failed write never orphans them.
	reviews, err := r.loadReviews(ctx)
	if err != nil {
		return err
	}
	kept := reviews[:0]
	for _, rv := range reviews {
		if rv.RecipeID != id {
			kept = append(kept, rv)
		}
	}
	if len(kept) != len(reviews) {
		if err := r.save(ctx, ReviewsKey, kept); err != nil {
			return err
		}
	}

	recipes = append(recipes[:idx], recipes[idx+1:]...)
	if err := r.save(ctx, RecipesKey, recipes); err != nil {
		return err
	}

	r.log.Info("recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

func (r *Repository) ListUserRecipes(ctx context.Context, userID models.ID, skip, limit int) ([]models.Recipe, error) {
	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Recipe, 0)
	for _, recipe := range recipes {
		if recipe.IsAuthoredBy(userID) {
			owned = append(owned, recipe)
		}
	}
	return repository.Page(owned, skip, limit), nil
}

func indexOfRecipe(recipes []models.Recipe, id models.ID) int {
	for i := range recipes {
		if recipes[i].ID == id {
			return i
		}
	}
	return -1
}
