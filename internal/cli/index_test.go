package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to decode a JSON CLI response whose data is an IndexResult.
func decodeIndexResult(t *testing.T, stdout string) IndexResult {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   IndexResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestIndexCommand(t *testing.T) {
	stdout, _, err := execute(t, "index", "testdata/plugins")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 7 command(s), 5 name(s), from 2 file(s)")
	assert.Contains(t, stdout, "✓ No conflicts")
}

func TestIndexCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "index", "testdata/plugins", "--format", "json")
	require.NoError(t, err)

	result := decodeIndexResult(t, stdout)
	assert.Equal(t, 7, result.Commands)
	assert.Equal(t, 5, result.Names)
	assert.Equal(t, []string{
		filepath.Join("testdata", "plugins", "bar.strtab"),
		filepath.Join("testdata", "plugins", "core.yaml"),
	}, result.Files)
	assert.Empty(t, result.Conflicts)
	assert.Nil(t, result.Build)
}

func TestIndexCommandConflicts(t *testing.T) {
	stdout, _, err := execute(t, "index", "testdata/conflict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ 1 conflict(s):")
	assert.Contains(t, stdout, "[E201] command FOO(Integer a) -> Void is exported by both one (testdata/conflict/one.strtab) and two (testdata/conflict/two.strtab)")
}

func TestIndexCommandConflictsNotSaved(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "odb.db")
	_, _, err := execute(t, "index", "testdata/conflict", "--save", "--catalog", catalog)
	require.Error(t, err)

	_, _, err = execute(t, "catalog", "list", "--catalog", catalog)
	require.Error(t, err, "catalog must not be created for a conflicting index")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestIndexCommandLoadError(t *testing.T) {
	_, stderr, err := execute(t, "index", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "[E106]")
}

func TestIndexCommandSave(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "odb.db")

	stdout, _, err := execute(t, "index", "testdata/plugins", "--save", "--catalog", catalog, "--label", "nightly", "--format", "json")
	require.NoError(t, err)
	first := decodeIndexResult(t, stdout)
	require.NotNil(t, first.Build)
	assert.True(t, first.Created)
	assert.Equal(t, "nightly", first.Build.Label)
	assert.Equal(t, 7, first.Build.CommandCount)

	stdout, _, err = execute(t, "index", "testdata/plugins", "--save", "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Catalog up to date (build "+first.Build.ID+")")
}

func TestIndexCommandSaveWithoutCatalog(t *testing.T) {
	_, _, err := execute(t, "index", "testdata/plugins", "--save")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
