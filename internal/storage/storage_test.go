package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/cookbook/internal/testhelpers"
)

func exerciseStore(t *testing.T, s KeyValueStore) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "cookbook_recipes", []byte(`[1]`)))
	v, err := s.Get(ctx, "cookbook_recipes")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))

	require.NoError(t, s.Set(ctx, "cookbook_recipes", []byte(`[1,2]`)))
	v, err = s.Get(ctx, "cookbook_recipes")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(v))

	require.NoError(t, s.Delete(ctx, "cookbook_recipes"))
	_, err = s.Get(ctx, "cookbook_recipes")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "never-written"))
}

func openGorm(t *testing.T, dialector gorm.Dialector) *gorm.DB {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&KVEntry{}))
	return db
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestGormStoreSQLite(t *testing.T) {
	exerciseStore(t, NewGormStore(openGorm(t, sqlite.Open(filepath.Join(t.TempDir(), "kv.db")))))
}

func TestGormStorePostgres(t *testing.T) {
	dsn := testhelpers.StartPostgres(t)
	exerciseStore(t, NewGormStore(openGorm(t, postgres.Open(dsn))))
}

func TestRedisStore(t *testing.T) {
	url := testhelpers.StartRedis(t)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewRedisStore(client, "test:"))
}
