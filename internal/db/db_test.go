package db_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
)

func TestNewDB_RejectsDimensionThePostgresColumnsCannotHold(t *testing.T) {
	cfg := &config.Config{Policy: config.DefaultPolicy()}
	cfg.DB.Driver = "postgres"
	cfg.DB.PostgresDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable"
	cfg.Policy.EmbeddingDim = 128

	_, err := db.NewDB(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid config")
}

func TestNewDB_SQLiteAcceptsAnyDimension(t *testing.T) {
	cfg := &config.Config{Policy: config.DefaultPolicy()}
	cfg.DB.Driver = "sqlite"
	cfg.DB.SQLitePath = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.Policy.EmbeddingDim = 64

	database, err := db.NewDB(cfg)
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.True(t, database.Migrator().HasTable(&db.ReferenceEmbedding{}))
}
