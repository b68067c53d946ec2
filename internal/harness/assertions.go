package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when a step's outcome differs from its
// expectation.
type AssertionError struct {
	Step     int    // zero-based step index
	Type     string // match or resolve
	Input    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "steps[%d] %s %q failed\n", e.Step, e.Type, e.Input)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkMatch compares a match event against the step expectation.
func checkMatch(ev TraceEvent, want Expect) error {
	if *want.Length == ev.Length && *want.Exact == ev.Exact {
		return nil
	}
	return &AssertionError{
		Step:     ev.Step,
		Type:     ev.Type,
		Input:    ev.Input,
		Expected: fmt.Sprintf("length=%d exact=%t", *want.Length, *want.Exact),
		Actual:   fmt.Sprintf("length=%d exact=%t", ev.Length, ev.Exact),
	}
}

// checkResolve compares a resolve event against the step expectation.
// Only the fields set in want are compared.
func checkResolve(ev TraceEvent, want Expect) error {
	var diffs []string
	if want.Kind != ev.Kind {
		diffs = append(diffs, fmt.Sprintf("kind %s, got %s", want.Kind, ev.Kind))
	}
	if want.Symbol != "" && want.Symbol != ev.Symbol {
		diffs = append(diffs, fmt.Sprintf("symbol %s, got %s", want.Symbol, orNone(ev.Symbol)))
	}
	if want.Candidates != nil && !slices.Equal(want.Candidates, ev.Candidates) {
		diffs = append(diffs, fmt.Sprintf("candidates [%s], got [%s]",
			strings.Join(want.Candidates, ", "), strings.Join(ev.Candidates, ", ")))
	}
	if want.Code != "" && want.Code != ev.Code {
		diffs = append(diffs, fmt.Sprintf("code %s, got %s", want.Code, orNone(ev.Code)))
	}
	if len(diffs) == 0 {
		return nil
	}
	return &AssertionError{
		Step:     ev.Step,
		Type:     ev.Type,
		Input:    ev.Input + "(" + strings.Join(ev.Args, ", ") + ")",
		Expected: strings.Join(diffs, "; "),
		Actual:   describeResolve(ev),
	}
}

func describeResolve(ev TraceEvent) string {
	s := ev.Kind
	if ev.Symbol != "" {
		s += " " + ev.Symbol
	}
	if len(ev.Candidates) > 0 {
		s += " candidates=[" + strings.Join(ev.Candidates, ", ") + "]"
	}
	if ev.Code != "" {
		s += " code=" + ev.Code
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
