package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "conflicts.yaml"),
		filepath.Join("testdata", "scenarios", "overloads.yaml"),
		filepath.Join("testdata", "scenarios", "randomize.yaml"),
	}, paths)
}

func TestFindScenariosEmptyDir(t *testing.T) {
	_, err := FindScenarios(t.TempDir())
	var nf *ScenarioNotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestRunSuite(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: broken\n"), 0644))

	entries := RunSuite(append(paths, broken))
	require.Len(t, entries, 4)
	for _, e := range entries[:3] {
		assert.True(t, e.Passed(), "%s: %v %v", e.Path, e.Err, e.Result)
	}
	assert.False(t, entries[3].Passed())
	assert.Error(t, entries[3].Err)
	assert.Nil(t, entries[3].Result)
}
