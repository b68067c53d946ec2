package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCodesRoundTrip(t *testing.T) {
	seen := make(map[byte]ParamType)
	for _, pt := range AllParamTypes() {
		code := pt.Code()
		prev, dup := seen[code]
		require.False(t, dup, "code %q used by both %v and %v", code, prev, pt)
		seen[code] = pt

		got, err := ParseTypeCode(code)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	assert.Len(t, seen, NumParamTypes)
}

func TestTypeCodesMatchPluginABI(t *testing.T) {
	tests := []struct {
		code byte
		want ParamType
	}{
		{'0', Void},
		{'R', Long},
		{'D', Dword},
		{'L', Integer},
		{'W', Word},
		{'Y', Byte},
		{'B', Boolean},
		{'F', Float},
		{'O', Double},
		{'S', String},
		{'H', Array},
		{'K', Label},
		{'C', DynamicLabel},
		{'X', Any},
		{'E', UserDefined},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got, err := ParseTypeCode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypeCodeUnknown(t *testing.T) {
	_, err := ParseTypeCode('?')
	require.Error(t, err)

	var codeErr *TypeCodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, byte('?'), codeErr.Code)
}

func TestParseParamType(t *testing.T) {
	tests := []struct {
		in   string
		want ParamType
	}{
		{"Integer", Integer},
		{"integer", Integer},
		{" DOUBLE ", Double},
		{"DynamicLabel", DynamicLabel},
		{"dlabel", DynamicLabel},
		{"udt", UserDefined},
		{"L", Integer},
		{"R", Long},
		{"0", Void},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseParamType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseParamType("quaternion")
	assert.Error(t, err)
}

func TestParamTypeString(t *testing.T) {
	assert.Equal(t, "Integer", Integer.String())
	assert.Equal(t, "Void", Void.String())
	assert.Equal(t, "ParamType(200)", ParamType(200).String())
	assert.False(t, ParamType(200).Valid())
	assert.Equal(t, byte('?'), ParamType(200).Code())
}

func TestParamTypeJSON(t *testing.T) {
	p := Parameter{Type: Float, Direction: Out, Name: "x"}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Float","direction":"out","name":"x"}`, string(data))

	var back Parameter
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestDirectionUnmarshal(t *testing.T) {
	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("")))
	assert.Equal(t, In, d)
	require.NoError(t, d.UnmarshalText([]byte("OUT")))
	assert.Equal(t, Out, d)
	assert.Error(t, d.UnmarshalText([]byte("inout")))
}
