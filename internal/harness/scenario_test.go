package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to write a scenario file and return its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenarioResolvesSources(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "randomize.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "randomize", scenario.Name)
	assert.Equal(t, []string{filepath.Join("testdata", "plugins", "randomize.yaml")}, scenario.Sources)
	assert.True(t, scenario.Reload)
	require.Len(t, scenario.Steps, 6)
	assert.True(t, scenario.Steps[0].IsMatch())
	assert.False(t, scenario.Steps[5].IsMatch())
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{resolve: a, expect: {kind: unique}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{resolve: a, expect: {kind: unique}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no commands",
			content: "name: n\ndescription: d\nsteps: [{resolve: a, expect: {kind: unique}}]\n",
			wantErr: "sources or plugins are required",
		},
		{
			name:    "no steps",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "missing source",
			content: "name: n\ndescription: d\nsources: [nope.yaml]\nsteps: [{resolve: a, expect: {kind: unique}}]\n",
			wantErr: "source not found",
		},
		{
			name:    "plugin without library",
			content: "name: n\ndescription: d\nplugins: [{entries: [\"A%0%A\"]}]\nsteps: [{resolve: a, expect: {kind: unique}}]\n",
			wantErr: "plugins[0]: library is required",
		},
		{
			name:    "match and resolve",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{match: a, resolve: a, expect: {kind: unique}}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "match without expectation",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{match: a, expect: {length: 1}}]\n",
			wantErr: "match requires expect.length and expect.exact",
		},
		{
			name:    "bad kind",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{resolve: a, expect: {kind: maybe}}]\n",
			wantErr: "expect.kind must be",
		},
		{
			name:    "bad arg type",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{resolve: a, args: [Quaternion], expect: {kind: unique}}]\n",
			wantErr: "unknown param type",
		},
		{
			name:    "empty step",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nsteps: [{expect: {kind: unique}}]\n",
			wantErr: "match or resolve is required",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\nplugins: [{library: a, entries: [\"A%0%A\"]}]\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
