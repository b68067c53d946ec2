package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/loader"
)

// Test helper to write a config file into dir.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, path, err := Load(LoadOptions{SearchDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, cfg.Sources)
	assert.Empty(t, cfg.Catalog)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, log.WarnLevel, cfg.Level())
	assert.Equal(t, loader.LoadModeFailFast, cfg.Mode())
}

func TestLoadFromSearchDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "odbcmd.yaml", `
sources:
  - plugins
  - /opt/odb/core.yaml
catalog: odb.db
log_level: debug
format: json
load_mode: collect_all
`)

	cfg, path, err := Load(LoadOptions{SearchDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "odbcmd.yaml"), path)
	assert.Equal(t, []string{filepath.Join(dir, "plugins"), "/opt/odb/core.yaml"}, cfg.Sources)
	assert.Equal(t, "odb.db", cfg.Catalog)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, loader.LoadModeCollectAll, cfg.Mode())
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yml", "format: json\n")

	cfg, used, err := Load(LoadOptions{ConfigFilePath: path})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, _, err := Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "odbcmd.yaml", "log_level: info\nsources: [plugins]\n")
	t.Setenv("ODBCMD_LOG_LEVEL", "error")
	t.Setenv("ODBCMD_SOURCES", "a.yaml,b.cue")

	cfg, _, err := Load(LoadOptions{SearchDir: dir})
	require.NoError(t, err)
	assert.Equal(t, log.ErrorLevel, cfg.Level())
	assert.Equal(t, []string{"a.yaml", "b.cue"}, cfg.Sources)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "format: xml\n", "format:"},
		{"log level", "log_level: loud\n", "log_level:"},
		{"load mode", "load_mode: sometimes\n", "load_mode:"},
		{"syntax", "format: [\n", "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "odbcmd.yaml", tt.content)

			_, _, err := Load(LoadOptions{SearchDir: dir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
