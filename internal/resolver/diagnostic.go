package resolver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// OverloadErrorCode identifies a resolution failure in diagnostics.
type OverloadErrorCode string

const (
	// ErrCodeNoMatch: the name exists but no overload accepts the arguments.
	ErrCodeNoMatch OverloadErrorCode = "E202"

	// ErrCodeAmbiguous: more than one overload survives resolution.
	ErrCodeAmbiguous OverloadErrorCode = "E203"

	// ErrCodeUnknownCommand: no overload is registered under the name.
	ErrCodeUnknownCommand OverloadErrorCode = "E204"
)

// OverloadError reports a call that did not resolve to exactly one
// overload. Candidates follows Resolution.Candidates.
type OverloadError struct {
	Code       OverloadErrorCode
	Name       string
	Args       []ir.ParamType
	Candidates []*ir.Command
}

// Error implements the error interface. It returns the headline only; use
// Render for the full candidate listing.
func (e *OverloadError) Error() string {
	name := e.displayName()
	switch e.Code {
	case ErrCodeAmbiguous:
		return fmt.Sprintf("[%s] call to %s%s is ambiguous between %d overloads",
			e.Code, name, ir.FormatTypes(e.Args), len(e.Candidates))
	case ErrCodeUnknownCommand:
		return fmt.Sprintf("[%s] unknown command %s", e.Code, name)
	default:
		return fmt.Sprintf("[%s] no overload of %s accepts %s",
			e.Code, name, ir.FormatTypes(e.Args))
	}
}

// displayName prefers the declared spelling over the caller's.
func (e *OverloadError) displayName() string {
	if len(e.Candidates) > 0 {
		return e.Candidates[0].Name
	}
	return e.Name
}

// Render writes the headline followed by every candidate signature, its
// provenance and, per candidate, the arguments that did not bind exactly.
func (e *OverloadError) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteByte('\n')
	if len(e.Candidates) > 0 {
		b.WriteString("  candidates:\n")
	}
	for _, cmd := range e.Candidates {
		fmt.Fprintf(&b, "    %s  [%s]\n", cmd.Signature(), cmd.Provenance)
		for _, reason := range explain(cmd, e.Args) {
			fmt.Fprintf(&b, "      %s\n", reason)
		}
	}
	if e.Code == ErrCodeAmbiguous {
		b.WriteString("  hint: convert the arguments so exactly one overload binds without promotion\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// explain lists why args do not bind exactly to cmd.
func explain(cmd *ir.Command, args []ir.ParamType) []string {
	if cmd.Arity() != len(args) {
		return []string{fmt.Sprintf("takes %s, call has %d", plural(cmd.Arity(), "argument"), len(args))}
	}
	var out []string
	for i, arg := range args {
		param := cmd.Params[i].Type
		if p := Promote(arg, param); p != Allow {
			out = append(out, fmt.Sprintf("argument %d: %s -> %s (%s)", i+1, arg, param, p))
		}
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// IsNoMatch reports whether err is an OverloadError for a call no overload
// accepts, including calls to unknown commands.
func IsNoMatch(err error) bool {
	var oe *OverloadError
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeNoMatch || oe.Code == ErrCodeUnknownCommand
	}
	return false
}

// IsAmbiguous reports whether err is an OverloadError for an ambiguous call.
func IsAmbiguous(err error) bool {
	var oe *OverloadError
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeAmbiguous
	}
	return false
}

// IsUnknownCommand reports whether err is an OverloadError for a name with
// no overloads at all.
func IsUnknownCommand(err error) bool {
	var oe *OverloadError
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeUnknownCommand
	}
	return false
}
