package store

import (
	"encoding/json"
	"fmt"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// storedParam is the JSON form of one parameter in the params column.
// Types are stored as ABI codes so the column stays stable if display
// names change.
type storedParam struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Name      string `json:"name"`
}

// marshalParams converts parameters to canonical JSON TEXT for storage.
func marshalParams(params []ir.Parameter) (string, error) {
	list := make([]any, len(params))
	for i, p := range params {
		list[i] = map[string]any{
			"type":      string(rune(p.Type.Code())),
			"direction": p.Direction.String(),
			"name":      p.Name,
		}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// unmarshalParams parses the params column back into parameters.
func unmarshalParams(data string) ([]ir.Parameter, error) {
	var stored []storedParam
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	params := make([]ir.Parameter, len(stored))
	for i, sp := range stored {
		t, err := parseCode(sp.Type)
		if err != nil {
			return nil, fmt.Errorf("unmarshal params: param %d: %w", i+1, err)
		}
		params[i] = ir.Parameter{Type: t, Name: sp.Name}
		if err := params[i].Direction.UnmarshalText([]byte(sp.Direction)); err != nil {
			return nil, fmt.Errorf("unmarshal params: param %d: %w", i+1, err)
		}
	}
	return params, nil
}

// parseCode decodes a one-character type code column.
func parseCode(s string) (ir.ParamType, error) {
	if len(s) != 1 {
		return ir.Void, fmt.Errorf("type code %q must be one character", s)
	}
	return ir.ParseTypeCode(s[0])
}
