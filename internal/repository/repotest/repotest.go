// Package repotest holds the behavioral contract every repository
// implementation must satisfy. Implementations call Run from their tests.
package repotest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
)

// Backend creates an empty backing store and returns a constructor for
// clients of it. Every client has its own session.
type Backend func(t *testing.T) func() repository.Repository

// PNG is a minimal payload accepted as an image upload.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// Run executes the contract suite.
func Run(t *testing.T, backend Backend) {
	tests := []struct {
		name string
		fn   func(*testing.T, func() repository.Repository)
	}{
		{"SessionLifecycle", testSessionLifecycle},
		{"RegisterConflict", testRegisterConflict},
		{"RegisterValidation", testRegisterValidation},
		{"RegisterAvatar", testRegisterAvatar},
		{"LoginFailures", testLoginFailures},
		{"CreateRecipe", testCreateRecipe},
		{"CreateRecipeRejects", testCreateRecipeRejects},
		{"CreateRecipeImage", testCreateRecipeImage},
		{"ListOrderAndPaging", testListOrderAndPaging},
		{"Search", testSearch},
		{"GetRecipeNotFound", testGetRecipeNotFound},
		{"DeleteRecipe", testDeleteRecipe},
		{"Reviews", testReviews},
		{"ReviewRejects", testReviewRejects},
		{"Users", testUsers},
		{"UpdateProfile", testUpdateProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, backend(t))
		})
	}
}

// SignIn registers a user with the given email and logs the client in.
func SignIn(t *testing.T, repo repository.Repository, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	user, err := repo.Register(ctx, email, "user-"+email, "secret-pw", nil)
	require.NoError(t, err)
	_, err = repo.Login(ctx, email, "secret-pw")
	require.NoError(t, err)
	return user
}

// Draft returns a valid recipe draft titled title.
func Draft(title string) models.RecipeDraft {
	return models.RecipeDraft{
		Title:       title,
		Description: "Описание " + title,
		Category:    "Паста",
		CookTime:    25,
		Servings:    2,
		Ingredients: []models.Ingredient{{Name: "Спагетти", Quantity: 400, Unit: "г"}},
		Steps:       []models.Step{{Text: "Сварить"}, {Text: "Подать"}},
	}
}

func testSessionLifecycle(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	user, err := repo.Register(ctx, " Anna@Example.com ", "anna", "pw-123", nil)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, models.DefaultAvatar, user.Avatar)
	assert.NotEmpty(t, user.ID)

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	token, err := repo.Login(ctx, "anna@example.com", "pw-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	current, err = repo.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	require.NoError(t, repo.Logout(ctx))
	current, err = repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func testRegisterConflict(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	first, err := repo.Register(ctx, "dup@example.com", "first", "first-pw", nil)
	require.NoError(t, err)

	_, err = repo.Register(ctx, "DUP@example.com", "second", "second-pw", nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = repo.Login(ctx, "dup@example.com", "first-pw")
	require.NoError(t, err)
	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
	assert.Equal(t, "first", current.Username)
}

func testRegisterValidation(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	_, err := repo.Register(ctx, "no-at-sign", "x", "pw", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = repo.Register(ctx, "a@b.c", " ", "pw", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = repo.Register(ctx, "a@b.c", "x", "", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func testRegisterAvatar(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	user, err := repo.Register(ctx, "pic@example.com", "pic", "pw", &assets.Asset{Filename: "me.png", Data: PNG})
	require.NoError(t, err)
	assert.NotEqual(t, models.DefaultAvatar, user.Avatar)
	assert.NotEmpty(t, user.Avatar)
}

func testLoginFailures(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	_, err := repo.Register(ctx, "login@example.com", "login", "right", nil)
	require.NoError(t, err)

	_, err = repo.Login(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = repo.Login(ctx, "ghost@example.com", "right")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func testCreateRecipe(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	_, err := repo.CreateRecipe(ctx, Draft("Без входа"), nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	author := SignIn(t, repo, "chef@example.com")
	draft := Draft("  Паста Карбонара ")
	draft.Steps = []models.Step{{Order: 9, Text: "Сварить"}, {Order: 4, Text: "Подать"}}

	created, err := repo.CreateRecipe(ctx, draft, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Паста Карбонара", created.Title)
	require.NotNil(t, created.AuthorID)
	assert.Equal(t, author.ID, *created.AuthorID)
	assert.Equal(t, []models.Step{{Order: 1, Text: "Сварить"}, {Order: 2, Text: "Подать"}}, created.Steps)
	assert.Equal(t, 0, created.ReviewCount)

	got, err := repo.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Ingredients, got.Ingredients)
	assert.Equal(t, models.NoRatingsLabel, got.RatingLabel())
}

func testCreateRecipeRejects(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	SignIn(t, repo, "strict@example.com")

	bad := Draft("x")
	bad.Title = "  "
	_, err := repo.CreateRecipe(ctx, bad, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad = Draft("x")
	bad.Ingredients = append(bad.Ingredients, models.Ingredient{Name: ""})
	_, err = repo.CreateRecipe(ctx, bad, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad = Draft("x")
	bad.Steps = []models.Step{{Text: " "}}
	_, err = repo.CreateRecipe(ctx, bad, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	list, err := repo.ListRecipes(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testCreateRecipeImage(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	SignIn(t, repo, "photo@example.com")

	created, err := repo.CreateRecipe(ctx, Draft("С фото"), &assets.Asset{Filename: "dish.png", Data: PNG})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Image)

	_, err = repo.CreateRecipe(ctx, Draft("Не фото"), &assets.Asset{Filename: "notes.txt", Data: []byte("hello there")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func testListOrderAndPaging(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	SignIn(t, repo, "pager@example.com")

	for i := 1; i <= 3; i++ {
		_, err := repo.CreateRecipe(ctx, Draft(fmt.Sprintf("Рецепт %d", i)), nil)
		require.NoError(t, err)
	}

	page, err := repo.ListRecipes(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Рецепт 1", "Рецепт 2"}, titles(page))

	page, err = repo.ListRecipes(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Рецепт 3"}, titles(page))

	page, err = repo.ListRecipes(ctx, -3, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	page, err = repo.ListRecipes(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func testSearch(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	SignIn(t, repo, "search@example.com")

	carbonara := Draft("Паста Карбонара")
	salad := Draft("Греческий салат")
	salad.Description = "Свежие овощи"
	salad.Category = "Салат"
	salad.Ingredients = []models.Ingredient{{Name: "Фета", Quantity: 200, Unit: "г"}}
	soup := Draft("Борщ")
	soup.Description = "Суп"
	soup.Category = "Суп"
	soup.Ingredients = []models.Ingredient{{Name: "Свёкла", Quantity: 2, Unit: "шт"}}

	for _, d := range []models.RecipeDraft{carbonara, salad, soup} {
		_, err := repo.CreateRecipe(ctx, d, nil)
		require.NoError(t, err)
	}

	cases := map[string][]string{
		"паста":  {"Паста Карбонара"},
		"САЛАТ":  {"Греческий салат"},
		"фета":   {"Греческий салат"},
		"суп":    {"Борщ"},
		"нет":    {},
		"  ":     {"Паста Карбонара", "Греческий салат", "Борщ"},
		"свеж":   {"Греческий салат"},
		"свёкла": {"Борщ"},
	}
	for q, want := range cases {
		got, err := repo.SearchRecipes(ctx, q, 0, 50)
		require.NoError(t, err, q)
		assert.Equal(t, want, titles(got), q)
	}
}

func testGetRecipeNotFound(t *testing.T, client func() repository.Repository) {
	_, err := client().GetRecipe(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func testDeleteRecipe(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	owner := client()
	other := client()
	SignIn(t, owner, "owner@example.com")

	recipe, err := owner.CreateRecipe(ctx, Draft("Моё"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, other.DeleteRecipe(ctx, recipe.ID), apperr.ErrUnauthorized)

	SignIn(t, other, "other@example.com")
	assert.ErrorIs(t, other.DeleteRecipe(ctx, recipe.ID), apperr.ErrForbidden)

	got, err := other.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Моё", got.Title)

	assert.ErrorIs(t, owner.DeleteRecipe(ctx, "missing"), apperr.ErrNotFound)
	require.NoError(t, owner.DeleteRecipe(ctx, recipe.ID))

	_, err = owner.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func testReviews(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	author := client()
	critic := client()
	SignIn(t, author, "cook@example.com")
	reviewer := SignIn(t, critic, "critic@example.com")

	recipe, err := author.CreateRecipe(ctx, Draft("Оцени меня"), nil)
	require.NoError(t, err)

	first, err := author.AddReview(ctx, recipe.ID, 5, "Отлично")
	require.NoError(t, err)
	assert.Equal(t, 5, first.Rating)

	second, err := critic.AddReview(ctx, recipe.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, reviewer.ID, second.UserID)
	assert.Equal(t, recipe.ID, second.RecipeID)

	_, err = critic.AddReview(ctx, recipe.ID, 1, "again")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := author.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReviewCount)
	assert.InDelta(t, 4.5, got.Rating, 1e-9)
	assert.Equal(t, "4.5", got.RatingLabel())

	reviews, err := critic.ListReviews(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, first.ID, reviews[0].ID)
	assert.Equal(t, second.ID, reviews[1].ID)

	list, err := critic.ListRecipes(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ReviewCount)
}

func testReviewRejects(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()
	anonymous := client()
	SignIn(t, repo, "rater@example.com")

	recipe, err := repo.CreateRecipe(ctx, Draft("Рецепт"), nil)
	require.NoError(t, err)

	_, err = repo.AddReview(ctx, recipe.ID, 0, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = repo.AddReview(ctx, recipe.ID, 6, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = anonymous.AddReview(ctx, recipe.ID, 3, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = repo.AddReview(ctx, "missing", 3, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.ListReviews(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	reviews, err := repo.ListReviews(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func testUsers(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	a := client()
	b := client()
	userA := SignIn(t, a, "a@example.com")
	SignIn(t, b, "b@example.com")

	_, err := a.CreateRecipe(ctx, Draft("A1"), nil)
	require.NoError(t, err)
	_, err = b.CreateRecipe(ctx, Draft("B1"), nil)
	require.NoError(t, err)
	_, err = a.CreateRecipe(ctx, Draft("A2"), nil)
	require.NoError(t, err)

	got, err := b.GetUser(ctx, userA.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = b.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	owned, err := b.ListUserRecipes(ctx, userA.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, titles(owned))

	owned, err = b.ListUserRecipes(ctx, userA.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, titles(owned))
}

func testUpdateProfile(t *testing.T, client func() repository.Repository) {
	ctx := context.Background()
	repo := client()

	name := "Новое имя"
	_, err := repo.UpdateProfile(ctx, models.ProfileUpdate{Username: &name})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	user := SignIn(t, repo, "profile@example.com")
	bio := "Люблю готовить"
	updated, err := repo.UpdateProfile(ctx, models.ProfileUpdate{Username: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Username)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, user.Email, updated.Email)

	blank := " "
	_, err = repo.UpdateProfile(ctx, models.ProfileUpdate{Username: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, name, current.Username)
}

func titles(recipes []models.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Title)
	}
	return out
}
