package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFilePresent(t *testing.T) {
	cfg, err := Load(LoadInput{WorkDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ProjectConfigOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{
		// pool size override
		"pool_size": 8,
	}`)

	cfg, err := Load(LoadInput{WorkDir: dir})
	require.NoError(t, err)
	require.Equal(t, 8, cfg.PoolSize)
}

func TestLoad_ExplicitConfigPathMustExist(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(LoadInput{WorkDir: dir, ConfigPath: "missing.json"})
	require.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_ExplicitConfigPathOverridesProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"pool_size": 4}`)

	explicit := filepath.Join(dir, "other.json")
	writeFile(t, explicit, `{"pool_size": 16}`)

	cfg, err := Load(LoadInput{WorkDir: dir, ConfigPath: explicit})
	require.NoError(t, err)
	require.Equal(t, 16, cfg.PoolSize)
}

func TestLoad_InvalidJSONReportsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{ not json `)

	_, err := Load(LoadInput{WorkDir: dir})
	require.ErrorIs(t, err, ErrConfigInvalid)
}

func TestFormatConfig_ProducesIndentedJSON(t *testing.T) {
	out, err := FormatConfig(Config{PoolSize: 4})
	require.NoError(t, err)
	require.Contains(t, out, `"pool_size": 4`)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
