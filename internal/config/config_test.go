package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(newFlags(t, "--data-dir", dir))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "study_data.db", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "09:00", cfg.RemindAt)
	assert.Equal(t, "127.0.0.1:8247", cfg.Addr)
	assert.Equal(t, filepath.Join(dir, "study_data.db"), cfg.DBPath())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "log-level: warn\nremind-at: \"07:30\"\naddr: \":9000\"\n")

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(newFlags(t, "--data-dir", dir))
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "07:30", cfg.RemindAt)
		assert.Equal(t, ":9000", cfg.Addr)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("SPACEDREP_LOG_LEVEL", "error")
		cfg, err := Load(newFlags(t, "--data-dir", dir))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "07:30", cfg.RemindAt)
	})

	t.Run("explicit flags override environment", func(t *testing.T) {
		t.Setenv("SPACEDREP_LOG_LEVEL", "error")
		cfg, err := Load(newFlags(t, "--data-dir", dir, "--log-level", "debug"))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

func TestLoadExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "db: /var/lib/spacedrep/study.db\n")

	cfg, err := Load(newFlags(t, "--data-dir", dir, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/spacedrep/study.db", cfg.DBPath())

	_, err = Load(newFlags(t, "--data-dir", dir, "--config", filepath.Join(dir, "missing.yaml")))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "verbose"}},
		{"remind time", []string{"--remind-at", "25:00"}},
		{"empty db", []string{"--db", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(newFlags(t, append([]string{"--data-dir", dir}, tc.args...)...))
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log-level", envKey("SPACEDREP_LOG_LEVEL"))
	assert.Equal(t, "data-dir", envKey("SPACEDREP_DATA_DIR"))
	assert.Equal(t, "db", envKey("SPACEDREP_DB"))
}
