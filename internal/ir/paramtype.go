package ir

import (
	"fmt"
	"strings"
)

// ParamType is the closed set of types a plugin command can take or return.
//
// The zero value is Void. The numeric order is part of the promotion table
// layout in internal/resolver and must not be reordered.
type ParamType uint8

const (
	Void         ParamType = iota // return only
	Long                          // 64-bit signed
	Dword                         // 32-bit unsigned
	Integer                       // 32-bit signed
	Word                          // 16-bit unsigned
	Byte                          // 8-bit unsigned
	Boolean                       // 8-bit
	Float                         // 32-bit
	Double                        // 64-bit
	String                        // char*
	Array                         // array address
	Label                         // label address
	DynamicLabel                  // dynamic label address
	Any                           // raw reinterpretation
	UserDefined                   // UDT address

	// NumParamTypes is the number of ParamType values.
	NumParamTypes = int(UserDefined) + 1
)

// typeInfo holds the boundary encoding for each ParamType.
// Codes are the plugin ABI's one-character tags and must stay bit-for-bit
// compatible with existing plugin string tables.
var typeInfo = [NumParamTypes]struct {
	code byte
	name string
}{
	Void:         {'0', "Void"},
	Long:         {'R', "Long"},
	Dword:        {'D', "Dword"},
	Integer:      {'L', "Integer"},
	Word:         {'W', "Word"},
	Byte:         {'Y', "Byte"},
	Boolean:      {'B', "Boolean"},
	Float:        {'F', "Float"},
	Double:       {'O', "Double"},
	String:       {'S', "String"},
	Array:        {'H', "Array"},
	Label:        {'K', "Label"},
	DynamicLabel: {'C', "DynamicLabel"},
	Any:          {'X', "Any"},
	UserDefined:  {'E', "UserDefined"},
}

// AllParamTypes returns every ParamType in declaration order.
func AllParamTypes() []ParamType {
	out := make([]ParamType, NumParamTypes)
	for i := range out {
		out[i] = ParamType(i)
	}
	return out
}

// Valid reports whether t is one of the declared ParamType values.
func (t ParamType) Valid() bool {
	return int(t) < NumParamTypes
}

// Code returns the one-character ABI code for t.
func (t ParamType) Code() byte {
	if !t.Valid() {
		return '?'
	}
	return typeInfo[t].code
}

// String returns the display name used in signatures and diagnostics.
func (t ParamType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ParamType(%d)", uint8(t))
	}
	return typeInfo[t].name
}

// MarshalText encodes t by name so manifests and JSON dumps stay readable.
func (t ParamType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid param type %d", uint8(t))
	}
	return []byte(typeInfo[t].name), nil
}

// UnmarshalText accepts a type name (any case) or a single ABI code.
func (t *ParamType) UnmarshalText(text []byte) error {
	pt, err := ParseParamType(string(text))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}

// ParseTypeCode decodes a one-character ABI code. This is the only place
// raw codes are interpreted.
func ParseTypeCode(c byte) (ParamType, error) {
	for i, info := range typeInfo {
		if info.code == c {
			return ParamType(i), nil
		}
	}
	return Void, &TypeCodeError{Code: c}
}

// ParseParamType parses a type by display name, case-insensitively.
// A single character is treated as an ABI code, except that names always
// win (there are no one-letter names).
func ParseParamType(s string) (ParamType, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return ParseTypeCode(s[0])
	}
	for i, info := range typeInfo {
		if strings.EqualFold(info.name, s) {
			return ParamType(i), nil
		}
	}
	switch strings.ToLower(s) {
	case "dlabel":
		return DynamicLabel, nil
	case "udt":
		return UserDefined, nil
	}
	return Void, fmt.Errorf("unknown param type %q", s)
}

// TypeCodeError reports an ABI type code that maps to no ParamType.
type TypeCodeError struct {
	Code byte
}

func (e *TypeCodeError) Error() string {
	return fmt.Sprintf("unknown type code %q", e.Code)
}

// Direction says whether a parameter is read or written by the command.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// MarshalText encodes d as "in" or "out".
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "in" or "out" (any case). Empty means In.
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "in":
		*d = In
	case "out":
		*d = Out
	default:
		return fmt.Errorf("invalid direction %q, must be \"in\" or \"out\"", text)
	}
	return nil
}
