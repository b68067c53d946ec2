package ir

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter is one positional parameter of a command.
type Parameter struct {
	Type      ParamType `json:"type" yaml:"type"`
	Direction Direction `json:"direction" yaml:"direction"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"` // diagnostics only
}

// Provenance identifies where a command came from. The core never looks
// inside it except to print it.
type Provenance struct {
	Library string `json:"library"`          // plugin or library name
	Source  string `json:"source,omitempty"` // manifest path, catalog build, ...
}

func (p Provenance) String() string {
	switch {
	case p.Library == "" && p.Source == "":
		return "<unknown>"
	case p.Source == "":
		return p.Library
	case p.Library == "":
		return p.Source
	default:
		return p.Library + " (" + p.Source + ")"
	}
}

// Command is one exported command signature. Several commands may share a
// canonical name; they are overloads distinguished by their parameters.
//
// Commands are built with NewCommand and must not be mutated afterwards;
// the index and matcher hold pointers to them.
type Command struct {
	Name          string      `json:"name"`           // original casing, for display
	CanonicalName string      `json:"canonical_name"` // folded, for lookup
	Symbol        string      `json:"symbol"`
	ReturnType    ParamType   `json:"return_type"`
	Params        []Parameter `json:"params"`
	Provenance    Provenance  `json:"provenance"`
	HelpRef       string      `json:"help_ref,omitempty"`
}

var (
	// ErrEmptyName is returned by NewCommand for a blank command name.
	ErrEmptyName = errors.New("command name is empty")

	// ErrNonASCIIName is returned by NewCommand for a name with bytes
	// outside printable ASCII. The matcher folds case byte by byte, so
	// only such names match the same way CanonicalName looks them up.
	ErrNonASCIIName = errors.New("command name must be printable ASCII")
)

// NewCommand builds an immutable command. The parameter slice is copied.
// Names must be printable ASCII.
func NewCommand(name, symbol string, ret ParamType, params []Parameter, prov Provenance, help string) (*Command, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return nil, fmt.Errorf("%w: %q", ErrNonASCIIName, name)
		}
	}
	if !ret.Valid() {
		return nil, &TypeCodeError{Code: byte(ret)}
	}
	ps := make([]Parameter, len(params))
	copy(ps, params)
	return &Command{
		Name:          name,
		CanonicalName: CanonicalName(name),
		Symbol:        symbol,
		ReturnType:    ret,
		Params:        ps,
		Provenance:    prov,
		HelpRef:       help,
	}, nil
}

// MustCommand is like NewCommand but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCommand(name, symbol string, ret ParamType, params ...Parameter) *Command {
	cmd, err := NewCommand(name, symbol, ret, params, Provenance{}, "")
	if err != nil {
		panic(err)
	}
	return cmd
}

// Param returns an input parameter of type t.
func Param(t ParamType, name string) Parameter {
	return Parameter{Type: t, Direction: In, Name: name}
}

// OutParam returns an output parameter of type t.
func OutParam(t ParamType, name string) Parameter {
	return Parameter{Type: t, Direction: Out, Name: name}
}

// Arity returns the number of parameters.
func (c *Command) Arity() int {
	return len(c.Params)
}

// ParamTypes returns the parameter types in order.
func (c *Command) ParamTypes() []ParamType {
	out := make([]ParamType, len(c.Params))
	for i, p := range c.Params {
		out[i] = p.Type
	}
	return out
}

// SameSignature reports whether c and other share canonical name, arity,
// every parameter type in order, and return type. Parameter names and
// directions do not take part.
func (c *Command) SameSignature(other *Command) bool {
	if c.CanonicalName != other.CanonicalName {
		return false
	}
	if c.ReturnType != other.ReturnType || len(c.Params) != len(other.Params) {
		return false
	}
	for i := range c.Params {
		if c.Params[i].Type != other.Params[i].Type {
			return false
		}
	}
	return true
}

// Signature renders the command for diagnostics, e.g.
//
//	RANDOMIZE MATRIX(Integer matrixID) -> Void
func (c *Command) Signature() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Direction == Out {
			b.WriteString("out ")
		}
		b.WriteString(p.Type.String())
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
	}
	b.WriteString(") -> ")
	b.WriteString(c.ReturnType.String())
	return b.String()
}

func (c *Command) String() string {
	return c.Signature()
}

// FormatTypes renders a list of argument types as "(Integer, Float)".
func FormatTypes(types []ParamType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
