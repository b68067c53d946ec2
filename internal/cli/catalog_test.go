package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/store"
)

// Test helper to save testdata/plugins into a fresh catalog and return its
// path and build ID.
func savedCatalog(t *testing.T) (string, string) {
	t.Helper()
	catalog := filepath.Join(t.TempDir(), "odb.db")
	stdout, _, err := execute(t, "index", "testdata/plugins", "--save", "--catalog", catalog, "--format", "json")
	require.NoError(t, err)
	result := decodeIndexResult(t, stdout)
	require.NotNil(t, result.Build)
	return catalog, result.Build.ID
}

func TestCatalogList(t *testing.T) {
	catalog, id := savedCatalog(t)

	stdout, _, err := execute(t, "catalog", "list", "--catalog", catalog, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []store.Build `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].ID)
	assert.Equal(t, 7, resp.Data[0].CommandCount)
}

func TestCatalogShow(t *testing.T) {
	catalog, id := savedCatalog(t)

	stdout, _, err := execute(t, "catalog", "show", id, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Build "+id)
	assert.Contains(t, stdout, "RANDOMIZE MESH(Integer meshID) -> Void")

	stdout, _, err = execute(t, "catalog", "show", id, "--catalog", catalog, "--name", "Foo", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data BuildDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, id, resp.Data.ID)
	require.Len(t, resp.Data.Commands, 2)
	assert.Equal(t, "FooInt", resp.Data.Commands[0].Symbol)
	assert.Equal(t, "FooFloat", resp.Data.Commands[1].Symbol)
}

func TestCatalogShowUnknownBuild(t *testing.T) {
	catalog, _ := savedCatalog(t)

	_, _, err := execute(t, "catalog", "show", "nope", "--catalog", catalog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCatalogDelete(t *testing.T) {
	catalog, id := savedCatalog(t)

	stdout, _, err := execute(t, "catalog", "delete", id, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Deleted build "+id)

	stdout, _, err = execute(t, "catalog", "list", "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No builds.")

	_, _, err = execute(t, "catalog", "delete", id, "--catalog", catalog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCommandsReadLatestBuild(t *testing.T) {
	catalog, _ := savedCatalog(t)

	stdout, _, err := execute(t, "resolve", "--catalog", catalog, "randomize matrix", "--arg", "Integer")
	require.NoError(t, err)
	assert.Contains(t, stdout, "symbol: RandomizeMatrix")

	stdout, _, err = execute(t, "match", "--catalog", catalog, "randomize mesh 1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ randomize mesh (14 bytes)")
}

func TestCommandsMissingCatalog(t *testing.T) {
	stdout, _, err := execute(t, "dump", "--catalog", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E003]: catalog not found")
}
