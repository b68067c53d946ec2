package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

func TestLoadYAML(t *testing.T) {
	src := `
library: values
commands:
  - name: GET VALUE
    symbol: GetValue
    returns: Float
    params:
      - {type: String, name: key}
      - {type: D, name: err, direction: out}
  - entry: "SET VALUE%SO%SetValue%key, value"
`
	cmds, errs := LoadYAML([]byte(src), "values.yaml", LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, cmds, 2)

	assert.Equal(t, "GET VALUE(String key, out Dword err) -> Float", cmds[0].Signature())
	assert.Equal(t, "SET VALUE(String key, Double value) -> Void", cmds[1].Signature())
	for _, cmd := range cmds {
		assert.Equal(t, ir.Provenance{Library: "values", Source: "values.yaml"}, cmd.Provenance)
	}
}

func TestLoadYAMLDefaultsLibraryToFileStem(t *testing.T) {
	src := "commands:\n  - {name: SYNC, symbol: Sync}\n"
	cmds, errs := LoadYAML([]byte(src), "plugins/sync.yml", LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, cmds, 1)
	assert.Equal(t, "sync", cmds[0].Provenance.Library)
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		line string
	}{
		{
			name: "unknown type name",
			src:  "commands:\n  - {name: SYNC, symbol: Sync}\n  - name: FOO\n    params: [{type: Quaternion}]\n",
			code: ErrCodeUnknownType,
			line: "m.yaml:3: ",
		},
		{
			name: "bad direction",
			src:  "commands:\n  - name: FOO\n    params: [{type: Integer, direction: sideways}]\n",
			code: ErrCodeMalformedEntry,
			line: "m.yaml:2: ",
		},
		{
			name: "entry mixed with fields",
			src:  "commands:\n  - {name: FOO, entry: \"FOO%0%Foo\"}\n",
			code: ErrCodeMalformedEntry,
			line: "m.yaml:2: ",
		},
		{
			name: "blank name",
			src:  "commands:\n  - {symbol: Foo}\n",
			code: ErrCodeEmptyName,
			line: "m.yaml:2: ",
		},
		{
			name: "misspelled command keys",
			src:  "commands:\n  - name: GET WIDTH\n    symbol: GetWidth\n    retuns: Integer\n    parms: [{type: Integer}]\n",
			code: ErrCodeMalformedEntry,
			line: "m.yaml:2: ",
		},
		{
			name: "misspelled param key",
			src:  "commands:\n  - {name: FOO, params: [{tpye: Integer}]}\n",
			code: ErrCodeMalformedEntry,
			line: "m.yaml:2: ",
		},
		{
			name: "unknown top-level key",
			src:  "library: core\ncomands: []\n",
			code: ErrCodeSource,
			line: "m.yaml: ",
		},
		{
			name: "not yaml",
			src:  "commands: [\n",
			code: ErrCodeSource,
			line: "m.yaml: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := LoadYAML([]byte(tt.src), "m.yaml", LoadModeFailFast)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, ErrorCode(errs[0]))
			assert.True(t, strings.HasPrefix(errs[0].Error(), tt.line), errs[0].Error())
		})
	}
}

func TestLoadYAMLCollectAll(t *testing.T) {
	src := `
commands:
  - {name: A, symbol: A}
  - {name: "", symbol: B}
  - {name: C, symbol: C, returns: Nope}
  - {name: D, symbol: D}
`
	cmds, errs := LoadYAML([]byte(src), "m.yaml", LoadModeCollectAll)
	assert.Len(t, cmds, 2)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrCodeEmptyName, ErrorCode(errs[0]))
	assert.Equal(t, ErrCodeUnknownType, ErrorCode(errs[1]))
}
