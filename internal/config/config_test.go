package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g1.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: custom.db\ndefault_limit: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.DefaultLimit)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
}

func TestLoad_MalformedYamlErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g1.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var cerr ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "ParseFailed", cerr.Kind)
}
