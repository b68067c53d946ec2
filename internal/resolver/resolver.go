package resolver

import (
	"slices"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// Lookuper returns the overloads registered under a name, in insertion
// order. *index.Index satisfies it.
type Lookuper interface {
	Lookup(name string) []*ir.Command
}

// Kind classifies a resolution outcome.
type Kind uint8

const (
	NoMatch Kind = iota
	Unique
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no_match"
	}
}

// MarshalText encodes k by name for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Resolution is the outcome of resolving one call.
//
// For Unique, Command is the chosen overload and Candidates holds it alone.
// For Ambiguous, Candidates are the surviving overloads. For NoMatch,
// Candidates are every overload of the name (empty for an unknown name).
type Resolution struct {
	Kind       Kind
	Name       string
	Args       []ir.ParamType
	Command    *ir.Command
	Candidates []*ir.Command
}

// Resolve selects the overload of name that accepts args.
func Resolve(idx Lookuper, name string, args []ir.ParamType) Resolution {
	res := Resolution{Name: name, Args: append([]ir.ParamType(nil), args...)}

	overloads := idx.Lookup(name)
	var viable []*ir.Command
	for _, cmd := range overloads {
		if cmd.Arity() != len(args) {
			continue
		}
		if _, ok := bind(cmd, args); ok {
			viable = append(viable, cmd)
		}
	}

	if len(viable) > 1 {
		var allowed []*ir.Command
		for _, cmd := range viable {
			if exact, _ := bind(cmd, args); exact {
				allowed = append(allowed, cmd)
			}
		}
		// Without an exact binding the promoted survivors stay ambiguous.
		if len(allowed) > 0 {
			viable = allowed
		}
	}

	switch len(viable) {
	case 0:
		res.Kind = NoMatch
		// Lookup may hand out its own storage.
		res.Candidates = slices.Clone(overloads)
	case 1:
		res.Kind = Unique
		res.Command = viable[0]
		res.Candidates = viable
	default:
		res.Kind = Ambiguous
		res.Candidates = viable
	}
	return res
}

// bind grades every argument against cmd's parameters, whose arity must
// already match. ok is false if any position is Disallow; exact is true
// when every position is Allow.
func bind(cmd *ir.Command, args []ir.ParamType) (exact, ok bool) {
	exact = true
	for i, arg := range args {
		switch Promote(arg, cmd.Params[i].Type) {
		case Disallow:
			return false, false
		case Allow:
		default:
			exact = false
		}
	}
	return exact, true
}

// Err returns nil for a Unique resolution and an *OverloadError otherwise.
func (r Resolution) Err() error {
	if r.Kind == Unique {
		return nil
	}
	return r.overloadError()
}

func (r Resolution) overloadError() *OverloadError {
	e := &OverloadError{
		Name:       r.Name,
		Args:       r.Args,
		Candidates: r.Candidates,
	}
	switch {
	case r.Kind == Ambiguous:
		e.Code = ErrCodeAmbiguous
	case len(r.Candidates) == 0:
		e.Code = ErrCodeUnknownCommand
	default:
		e.Code = ErrCodeNoMatch
	}
	return e
}
