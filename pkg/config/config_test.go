package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 0.6, cfg.Search.MinSimilarity)
	assert.Equal(t, 0.3, cfg.Search.MinTrigramOverlap)
	assert.Equal(t, 300, cfg.Search.MaxCandidates)
	assert.Equal(t, 3, cfg.Search.MaxEditDistance)

	opts := cfg.SearchOptions()
	assert.Equal(t, cfg.Search.MinSimilarity, opts.MinSimilarity)
	assert.Equal(t, cfg.Search.MaxCandidates, opts.MaxCandidates)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Search.DefaultLimit = 25
	cfg.Search.MinSimilarity = 0.75
	cfg.Catalog.Dir = "/srv/catalog"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Search.DefaultLimit)
	assert.Equal(t, 0.75, loaded.Search.MinSimilarity)
	assert.Equal(t, "/srv/catalog", loaded.Catalog.Dir)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, loaded.Search.MaxEditDistance)
}

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	// Second init loads the created file instead of rewriting it.
	again, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search]\ndefault_limit = 3\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.DefaultLimit)
	assert.Equal(t, 0.6, cfg.Search.MinSimilarity)
}
