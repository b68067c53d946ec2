package index

import (
	"errors"
	"fmt"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// ErrCodeConflict identifies an index conflict in diagnostics.
const ErrCodeConflict = "E201"

// Conflict is a pair of commands exporting the same name and signature.
// First was added before Second.
type Conflict struct {
	First  *ir.Command
	Second *ir.Command
}

// Err converts the conflict into an error value.
func (c Conflict) Err() *ConflictError {
	return &ConflictError{Conflict: c}
}

// ConflictError reports a Conflict. There is no way to disambiguate a call
// to either command, so it is fatal to compilation startup.
type ConflictError struct {
	Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("[%s] command %s is exported by both %s and %s",
		ErrCodeConflict, e.First.Signature(), e.First.Provenance, e.Second.Provenance)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
