package loader

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Loader error codes (E101-E106).
const (
	ErrCodeEmptyName      = "E101" // command name is blank
	ErrCodeInvalidName    = "E102" // name is not printable ASCII or starts with a non-letter
	ErrCodeUnknownType    = "E103" // type code or name maps to no ParamType
	ErrCodeVoidParam      = "E104" // Void used as a parameter type
	ErrCodeMalformedEntry = "E105" // string-table entry or manifest entry is malformed
	ErrCodeSource         = "E106" // source could not be read or parsed
)

// LoadError describes a problem with one command description.
//
// Exactly one of Pos (CUE sources) or Source/Line (YAML, string tables,
// raw records) locates the problem; both may be empty for records that did
// not come from a file.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
	Source  string
	Line    int
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
	case e.Source != "":
		return fmt.Sprintf("%s: %s", e.Source, msg)
	default:
		return msg
	}
}

// locate fills in the source location of err if it is a LoadError without one.
func locate(err error, source string, line int) error {
	var le *LoadError
	if errors.As(err, &le) && !le.Pos.IsValid() && le.Source == "" {
		le.Source = source
		le.Line = line
	}
	return err
}

// withPos attaches pos to a LoadError that has no location yet.
func withPos(err error, pos token.Pos) error {
	var le *LoadError
	if errors.As(err, &le) && !le.Pos.IsValid() && le.Source == "" {
		le.Pos = pos
	}
	return err
}

// ErrorCode returns the loader code carried by err, or "" if err is not a
// LoadError.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
