package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("POLICY_FILE", "")
	t.Setenv("VERIFY_THRESHOLD", "")
	t.Setenv("EMBEDDING_DIM", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "root:root@tcp(localhost:3306)/profileguard?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.Equal(t, "50051", cfg.GRPC.Port)
	assert.Equal(t, DefaultPolicy(), cfg.Policy)
	assert.Equal(t, "pixel", cfg.Embedding.Backend)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "file::memory:")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("VERIFY_THRESHOLD", "0.65")
	t.Setenv("EMBEDDING_DIM", "128")
	t.Setenv("LOG_SOURCE", "yes")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "file::memory:", cfg.DB.SQLitePath)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.InDelta(t, 0.65, cfg.Policy.SimilarityThreshold, 1e-9)
	assert.Equal(t, 128, cfg.Policy.EmbeddingDim)
	assert.True(t, cfg.Log.Source)
}

func TestNew_IgnoresOutOfRangeThreshold(t *testing.T) {
	t.Setenv("VERIFY_THRESHOLD", "1.5")
	t.Setenv("POLICY_FILE", "")

	cfg := New()
	assert.InDelta(t, 0.8, cfg.Policy.SimilarityThreshold, 1e-9)
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 0.9\nmax_profile_photos: 3\n"), 0o600))

	p, err := LoadPolicyFile(path, DefaultPolicy())
	require.NoError(t, err)
	assert.InDelta(t, 0.9, p.SimilarityThreshold, 1e-9)
	assert.Equal(t, 3, p.MaxProfilePhotos)
	assert.Equal(t, 512, p.EmbeddingDim) // untouched key keeps base value
}

func TestLoadPolicyFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 2\n"), 0o600))

	p, err := LoadPolicyFile(path, DefaultPolicy())
	assert.Error(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	_, err = LoadPolicyFile(filepath.Join(dir, "missing.yaml"), DefaultPolicy())
	assert.Error(t, err)
}

func TestValidate_EmbeddingDimPerDriver(t *testing.T) {
	cfg := &Config{Policy: DefaultPolicy()}
	cfg.DB.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Policy.EmbeddingDim = 128
	assert.ErrorContains(t, cfg.Validate(), "vector(512)")

	// text columns on the other drivers take any width
	for _, driver := range []string{"mysql", "sqlite"} {
		cfg.DB.Driver = driver
		assert.NoError(t, cfg.Validate(), driver)
	}

	cfg.Policy.EmbeddingDim = 0
	assert.Error(t, cfg.Validate())
}
