package browse

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/models"
)

// Detail is a recipe page: the recipe with its reviews and, when it can be
// resolved, its author.
type Detail struct {
	Recipe     *models.Recipe
	Author     *models.User
	IsFavorite bool
}

// Detail loads one recipe. A failed author lookup leaves Author nil instead
// of failing the page.
func (b *Browser) Detail(ctx context.Context, id models.ID) (*Detail, error) {
	recipe, err := b.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Recipe: recipe, IsFavorite: b.favorites.Has(recipe.ID)}
	if recipe.AuthorID != nil {
		author, err := b.repo.GetUser(ctx, *recipe.AuthorID)
		if err != nil {
			b.log.Warn("author lookup failed", zap.String("recipe_id", string(recipe.ID)), zap.Error(err))
		} else {
			d.Author = author
		}
	}
	return d, nil
}
