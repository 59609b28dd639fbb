package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/internal/apitest"
	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository/local"
	"github.com/pageza/cookbook/internal/storage"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// useLocalStore points the CLI at a fresh sqlite file.
func useLocalStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COOKBOOK_BACKEND", "local")
	t.Setenv("COOKBOOK_STORAGE_DRIVER", "sqlite")
	t.Setenv("COOKBOOK_STORAGE_DSN", filepath.Join(dir, "cookbook.db"))
	t.Setenv("COOKBOOK_LOG_LEVEL", "error")
	t.Setenv("COOKBOOK_AUTH_BCRYPT_COST", "4")
	t.Setenv("SECRETS_DIR", dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "cookbook %v", args)
	return out
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestSeedAndList(t *testing.T) {
	useLocalStore(t)

	assert.Contains(t, mustExecute(t, "seed"), "Seeded sample recipes")
	assert.Contains(t, mustExecute(t, "seed"), "nothing to seed")

	out := mustExecute(t, "recipes", "list")
	assert.Contains(t, out, "Паста Карбонара")
	assert.Contains(t, out, "no ratings")

	var recipes []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--json", "recipes", "list")), &recipes))
	assert.Len(t, recipes, len(local.SampleRecipes))

	out = mustExecute(t, "recipes", "search", "карбонара")
	assert.Contains(t, out, "Паста Карбонара")
	assert.NotContains(t, out, "Тирамису")
}

func TestFilter(t *testing.T) {
	useLocalStore(t)
	mustExecute(t, "seed")

	out := mustExecute(t, "recipes", "filter", "--ingredient", "бекон", "--category", "Паста")
	assert.Contains(t, out, "Паста Карбонара")
	assert.NotContains(t, out, "Тирамису")

	out = mustExecute(t, "recipes", "filter", "--category", "Нет такой")
	assert.Contains(t, out, "No recipes match the filters.")

	_, err := execute(t, "recipes", "filter", "--min-time", "60", "--max-time", "10")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAccountAndRecipeLifecycle(t *testing.T) {
	dir := useLocalStore(t)

	mustExecute(t, "register", "--email", "chef@example.com", "--username", "chef", "--password", "secret-pw")
	assert.Contains(t, mustExecute(t, "whoami"), "Not logged in")

	_, err := execute(t, "login", "--email", "chef@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	assert.Contains(t, mustExecute(t, "login", "--email", "chef@example.com", "--password", "secret-pw"), "Logged in as chef")
	assert.Contains(t, mustExecute(t, "whoami"), "chef (chef@example.com)")

	draft, err := json.Marshal(models.RecipeDraft{
		Title:       "Сырники",
		Description: "Пышные сырники на завтрак",
		Category:    "Завтрак",
		CookTime:    25,
		Servings:    2,
		Ingredients: []models.Ingredient{{Name: "Творог", Quantity: 400, Unit: "г"}, {Name: "Яйца", Quantity: 1, Unit: "шт"}},
		Steps:       []models.Step{{Text: "Смешать"}, {Text: "Обжарить"}},
	})
	require.NoError(t, err)
	draftPath := writeFile(t, dir, "draft.json", draft)
	imagePath := writeFile(t, dir, "dish.png", png)

	var created models.Recipe
	out := mustExecute(t, "--json", "recipes", "upload", "--file", draftPath, "--image", imagePath)
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.NotEmpty(t, created.Image)
	id := string(created.ID)

	out = mustExecute(t, "recipes", "show", id)
	assert.Contains(t, out, "Сырники")
	assert.Contains(t, out, "By: chef")
	assert.Contains(t, out, "Творог - 400 г")
	assert.Contains(t, out, "2. Обжарить")

	assert.Contains(t, mustExecute(t, "reviews", "add", id, "--rating", "5", "--comment", "Вкусно"), "★★★★★")
	_, err = execute(t, "reviews", "add", id, "--rating", "4")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, mustExecute(t, "reviews", "list", id), "Вкусно")
	assert.Contains(t, mustExecute(t, "recipes", "show", id), "Rating: 5.0 (1)")

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--json", "whoami")), &user))
	assert.Contains(t, mustExecute(t, "user", string(user.ID)), "Сырники")
	assert.Contains(t, mustExecute(t, "recipes", "by", string(user.ID)), "Сырники")
	assert.Contains(t, mustExecute(t, "profile", "--bio", "Люблю готовить"), "bio: Люблю готовить")

	assert.Contains(t, mustExecute(t, "recipes", "delete", id), "Deleted recipe")
	_, err = execute(t, "recipes", "show", id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mustExecute(t, "logout")
	_, err = execute(t, "reviews", "add", "1", "--rating", "5")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCartAdd(t *testing.T) {
	useLocalStore(t)
	mustExecute(t, "seed")

	var recipes []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--json", "recipes", "list")), &recipes))
	require.Equal(t, "Паста Карбонара", recipes[0].Title)
	id := string(recipes[0].ID)

	out := mustExecute(t, "cart", "add", id, id, "--export")
	assert.Contains(t, out, "☐ Бекон - 200 г")
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("Бекон")))

	out = mustExecute(t, "cart", "add", id)
	assert.Contains(t, out, "Мясо и птица:")
	assert.Contains(t, out, "Молочные продукты:")

	_, err := execute(t, "cart", "add", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	useLocalStore(t)
	assert.Contains(t, mustExecute(t, "migrate"), "Database is up to date")

	t.Setenv("COOKBOOK_STORAGE_DRIVER", "memory")
	_, err := execute(t, "migrate")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	useLocalStore(t)
	t.Setenv("COOKBOOK_BACKEND", "carrier-pigeon")

	_, err := execute(t, "recipes", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRemoteBackendAgainstFixture(t *testing.T) {
	dir := useLocalStore(t)

	repo := local.New(storage.NewMemoryStore(), local.Options{BcryptCost: 4})
	_, err := repo.Seed(context.Background())
	require.NoError(t, err)
	srv := apitest.Start(t, repo, apitest.Options{})

	t.Setenv("COOKBOOK_BACKEND", "remote")
	t.Setenv("COOKBOOK_API_BASE_URL", srv.URL)
	session := filepath.Join(dir, "session")

	assert.Contains(t, mustExecute(t, "--session-file", session, "recipes", "list"), "Тирамису")

	mustExecute(t, "--session-file", session, "register", "--email", "far@example.com", "--username", "far", "--password", "secret-pw")
	mustExecute(t, "--session-file", session, "login", "--email", "far@example.com", "--password", "secret-pw")
	assert.FileExists(t, session)
	assert.Contains(t, mustExecute(t, "--session-file", session, "whoami"), "far (far@example.com)")

	_, err = execute(t, "--session-file", session, "seed")
	assert.ErrorContains(t, err, "requires the local backend")

	mustExecute(t, "--session-file", session, "logout")
	assert.NoFileExists(t, session)
}

func TestFileSession(t *testing.T) {
	ctx := context.Background()
	s := NewFileSession(filepath.Join(t.TempDir(), "nested", "session"))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SetToken(ctx, "abc"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
	assert.Equal(t, "★★★★★", stars(9))
}
