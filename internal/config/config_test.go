package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephendolan/chartmogul-cli/internal/config"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvDataSource, "")
	return home
}

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	setHome(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultDataSource)
}

func TestSetAndLoadDefaultDataSource(t *testing.T) {
	home := setHome(t)

	require.NoError(t, config.SetDefaultDataSource("ds_123"))
	assert.Equal(t, "ds_123", config.DefaultDataSource())

	// The file lands in the expected location.
	_, err := os.Stat(filepath.Join(home, config.DefaultConfigDir, config.DefaultConfigFile))
	require.NoError(t, err)
}

func TestClearDefaultDataSource(t *testing.T) {
	setHome(t)

	require.NoError(t, config.SetDefaultDataSource("ds_123"))
	require.NoError(t, config.ClearDefaultDataSource())
	assert.Empty(t, config.DefaultDataSource())
}

func TestEnvFallback(t *testing.T) {
	setHome(t)
	t.Setenv(config.EnvDataSource, "ds_env")

	assert.Equal(t, "ds_env", config.DefaultDataSource())

	// Stored value wins over the environment.
	require.NoError(t, config.SetDefaultDataSource("ds_file"))
	assert.Equal(t, "ds_file", config.DefaultDataSource())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, config.DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("{not yaml"), 0o600))

	_, err := config.Load()
	assert.Error(t, err)
}
