package remote

import (
	"context"
	"net/http"

	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/types"
)

func (c *Client) ListReviews(ctx context.Context, recipeID models.ID) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, request{method: http.MethodGet, path: recipePath(recipeID) + "/reviews"}, &reviews)
	return nonNil(reviews), err
}

func (c *Client) AddReview(ctx context.Context, recipeID models.ID, rating int, comment string) (*models.Review, error) {
	if err := repository.ValidateRating(rating); err != nil {
		return nil, err
	}

	var review models.Review
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   recipePath(recipeID) + "/reviews",
		body:   types.ReviewRequest{Rating: rating, Comment: comment},
		auth:   true,
	}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
