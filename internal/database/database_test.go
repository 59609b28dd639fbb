package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/storage"
	"github.com/pageza/cookbook/internal/testhelpers"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "cookbook.db")}
	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db, "", zap.NewNop()))
	assert.True(t, db.Migrator().HasTable(&storage.KVEntry{}))
	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPostgresMigrations(t *testing.T) {
	dsn := testhelpers.StartPostgres(t)
	db, err := Open(config.StorageConfig{Driver: "postgres", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_audit.sql"),
		[]byte(`CREATE TABLE audit (id SERIAL PRIMARY KEY, note TEXT)`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	require.NoError(t, Migrate(db, dir, zap.NewNop()))
	// second run skips already applied files
	require.NoError(t, Migrate(db, dir, zap.NewNop()))

	var count int64
	require.NoError(t, db.Table("migrations").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.True(t, db.Migrator().HasTable("audit"))
}

func TestNewRedisClient(t *testing.T) {
	url := testhelpers.StartRedis(t)
	client, err := NewRedisClient(config.RedisConfig{URL: url}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}
