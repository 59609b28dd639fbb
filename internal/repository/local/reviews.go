package local

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
)

func (r *Repository) ListReviews(ctx context.Context, recipeID models.ID) ([]models.Review, error) {
	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	if indexOfRecipe(recipes, recipeID) < 0 {
		return nil, apperr.NotFound("recipe not found")
	}
	return r.reviewsFor(ctx, recipeID)
}

func (r *Repository) AddReview(ctx context.Context, recipeID models.ID, rating int, comment string) (*models.Review, error) {
	if err := repository.ValidateRating(rating); err != nil {
		return nil, err
	}
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfRecipe(recipes, recipeID)
	if idx < 0 {
		return nil, apperr.NotFound("recipe not found")
	}

	reviews, err := r.loadReviews(ctx)
	if err != nil {
		return nil, err
	}
	var forRecipe []models.Review
	for _, rv := range reviews {
		if rv.RecipeID != recipeID {
			continue
		}
		if rv.UserID == user.ID {
			return nil, apperr.Conflict("you have already reviewed this recipe")
		}
		forRecipe = append(forRecipe, rv)
	}

	review := models.Review{
		ID:        models.NewID(),
		UserID:    user.ID,
		RecipeID:  recipeID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: r.now().UTC(),
	}
	reviews = append(reviews, review)
	forRecipe = append(forRecipe, review)
	if err := r.save(ctx, ReviewsKey, reviews); err != nil {
		return nil, err
	}

	recipes[idx].ApplyReviews(forRecipe)
	recipes[idx].Reviews = nil
	if err := r.save(ctx, RecipesKey, recipes); err != nil {
		return nil, err
	}

	r.log.Info("review added",
		zap.String("recipe_id", recipeID.String()),
		zap.Int("rating", rating),
		zap.Float64("rating_avg", recipes[idx].Rating))
	return &review, nil
}

// reviewsFor returns the recipe's reviews in creation order.
func (r *Repository) reviewsFor(ctx context.Context, recipeID models.ID) ([]models.Review, error) {
	reviews, err := r.loadReviews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Review, 0)
	for _, rv := range reviews {
		if rv.RecipeID == recipeID {
			out = append(out, rv)
		}
	}
	return out, nil
}
