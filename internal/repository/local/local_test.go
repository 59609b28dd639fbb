package local

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/logging"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/repository/repotest"
	"github.com/pageza/cookbook/internal/storage"
)

func testOptions() Options {
	return Options{Secret: []byte("test-secret"), BcryptCost: bcrypt.MinCost}
}

func backendOn(store storage.KeyValueStore) func() repository.Repository {
	base := New(store, testOptions())
	return func() repository.Repository {
		return base.WithSession(repository.NewMemorySession())
	}
}

func TestContractMemory(t *testing.T) {
	repotest.Run(t, func(t *testing.T) func() repository.Repository {
		return backendOn(storage.NewMemoryStore())
	})
}

func TestContractSQLite(t *testing.T) {
	repotest.Run(t, func(t *testing.T) func() repository.Repository {
		db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cookbook.db")),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&storage.KVEntry{}))
		return backendOn(storage.NewGormStore(db))
	})
}

func TestCorruptCollectionsAreEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, RecipesKey, []byte("not json")))
	require.NoError(t, store.Set(ctx, UsersKey, []byte(`{"id": 1}`)))

	log, observed := logging.NewObserved()
	opts := testOptions()
	opts.Logger = log
	repo := New(store, opts)

	recipes, err := repo.ListRecipes(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	_, err = repo.Register(ctx, "fresh@example.com", "fresh", "pw", nil)
	require.NoError(t, err)

	warnings := observed.FilterMessage("ignoring corrupt collection").FilterLevelExact(zapcore.WarnLevel).All()
	assert.GreaterOrEqual(t, len(warnings), 2)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		repo := New(storage.NewMemoryStore(), testOptions())
		seeded, err := repo.Seed(ctx)
		require.NoError(t, err)
		assert.True(t, seeded)

		recipes, err := repo.ListRecipes(ctx, 0, 100)
		require.NoError(t, err)
		require.Len(t, recipes, len(SampleRecipes))
		assert.Equal(t, SampleRecipes[0].Title, recipes[0].Title)
		for _, r := range recipes {
			assert.Nil(t, r.AuthorID)
			assert.Zero(t, r.ReviewCount)
		}

		seeded, err = repo.Seed(ctx)
		require.NoError(t, err)
		assert.False(t, seeded)
	})

	t.Run("corrupt store", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, RecipesKey, []byte("{broken")))
		seeded, err := New(store, testOptions()).Seed(ctx)
		require.NoError(t, err)
		assert.True(t, seeded)
	})

	t.Run("empty array", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, RecipesKey, []byte("[]")))
		seeded, err := New(store, testOptions()).Seed(ctx)
		require.NoError(t, err)
		assert.True(t, seeded)
	})
}

func TestSeededRecipesCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	repo := New(storage.NewMemoryStore(), testOptions())
	_, err := repo.Seed(ctx)
	require.NoError(t, err)
	repotest.SignIn(t, repo, "me@example.com")

	recipes, err := repo.ListRecipes(ctx, 0, 1)
	require.NoError(t, err)
	err = repo.DeleteRecipe(ctx, recipes[0].ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = repo.GetRecipe(ctx, recipes[0].ID)
	assert.NoError(t, err)
}

func TestStoredSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	opts := testOptions()
	opts.Session = NewStoredSession(store)
	user := repotest.SignIn(t, New(store, opts), "persist@example.com")

	opts.Session = NewStoredSession(store)
	current, err := New(store, opts).CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	require.NoError(t, New(store, opts).Logout(ctx))
	_, err = store.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	session := repository.NewMemorySession()

	opts := testOptions()
	opts.Session = session
	opts.Clock = func() time.Time { return now }
	repo := New(storage.NewMemoryStore(), opts)
	repotest.SignIn(t, repo, "late@example.com")

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)

	now = now.Add(DefaultTokenTTL + time.Minute)
	current, err = repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	token, _ := session.Token(ctx)
	assert.Empty(t, token)
}

func TestTamperedTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	session := repository.NewMemorySession()
	opts := testOptions()
	opts.Session = session
	repo := New(storage.NewMemoryStore(), opts)

	require.NoError(t, session.SetToken(ctx, "garbage.token.value"))
	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	token, _ := session.Token(ctx)
	assert.Empty(t, token)
}

func TestPasswordsAreHashed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := New(store, testOptions())
	_, err := repo.Register(ctx, "hash@example.com", "hash", "plain-password", nil)
	require.NoError(t, err)

	raw, err := store.Get(ctx, UsersKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "plain-password")
	assert.Contains(t, string(raw), "password_hash")

	users, err := repo.loadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].Password)

	reopened := New(store, testOptions())
	_, err = reopened.Login(ctx, "hash@example.com", "plain-password")
	assert.NoError(t, err)
}

// failingStore fails every write to one key.
type failingStore struct {
	storage.KeyValueStore
	key string
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == s.key {
		return errors.New("disk full")
	}
	return s.KeyValueStore.Set(ctx, key, value)
}

func TestFailedDeleteKeepsRecipeAndDropsNoOrphans(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{KeyValueStore: storage.NewMemoryStore()}
	repo := New(store, testOptions())
	repotest.SignIn(t, repo, "fail@example.com")

	recipe, err := repo.CreateRecipe(ctx, repotest.Draft("Остаётся"), nil)
	require.NoError(t, err)
	_, err = repo.AddReview(ctx, recipe.ID, 4, "")
	require.NoError(t, err)

	store.key = RecipesKey
	require.Error(t, repo.DeleteRecipe(ctx, recipe.ID))

	recipes, err := repo.loadRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	reviews, err := repo.loadReviews(ctx)
	require.NoError(t, err)
	for _, rv := range reviews {
		assert.NotEqual(t, recipe.ID, rv.RecipeID)
	}

	store.key = ""
	require.NoError(t, repo.DeleteRecipe(ctx, recipe.ID))
	_, err = repo.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// countingAssets records how many assets were stored.
type countingAssets struct {
	puts int
}

func (a *countingAssets) Put(_ context.Context, kind assets.Kind, _ *assets.Asset) (string, error) {
	a.puts++
	return "https://cdn.example.com/" + string(kind) + "/a.png", nil
}

func TestDuplicateRegistrationStoresNoAvatar(t *testing.T) {
	ctx := context.Background()
	store := &countingAssets{}
	opts := testOptions()
	opts.Assets = store
	repo := New(storage.NewMemoryStore(), opts)
	avatar := &assets.Asset{Filename: "a.png", ContentType: "image/png", Data: []byte("png")}

	user, err := repo.Register(ctx, "dup@example.com", "dup", "secret123", avatar)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", user.Avatar)
	assert.Equal(t, 1, store.puts)

	_, err = repo.Register(ctx, "dup@example.com", "dup2", "secret123", avatar)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 1, store.puts)
}

func TestDeleteRemovesReviews(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := New(store, testOptions())
	repotest.SignIn(t, repo, "rm@example.com")

	recipe, err := repo.CreateRecipe(ctx, repotest.Draft("Удалить"), nil)
	require.NoError(t, err)
	_, err = repo.AddReview(ctx, recipe.ID, 5, "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRecipe(ctx, recipe.ID))
	reviews, err := repo.loadReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
