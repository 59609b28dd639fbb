// Package repository defines the storage-agnostic data contract shared by
// the local and remote implementations.
package repository

import (
	"context"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
)

// Repository is implemented by local.Repository and remote.Client. Errors
// belong to the apperr taxonomy; listings are in creation order, oldest
// first.
type Repository interface {
	ListRecipes(ctx context.Context, skip, limit int) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string, skip, limit int) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id models.ID) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, draft models.RecipeDraft, image *assets.Asset) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id models.ID) error

	AddReview(ctx context.Context, recipeID models.ID, rating int, comment string) (*models.Review, error)
	ListReviews(ctx context.Context, recipeID models.ID) ([]models.Review, error)

	Register(ctx context.Context, email, username, password string, avatar *assets.Asset) (*models.User, error)
	// Login stores the session credential and returns it.
	Login(ctx context.Context, email, password string) (string, error)
	// CurrentUser returns nil, nil when there is no valid session.
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error

	GetUser(ctx context.Context, id models.ID) (*models.User, error)
	ListUserRecipes(ctx context.Context, userID models.ID, skip, limit int) ([]models.Recipe, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
}
