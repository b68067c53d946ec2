package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Commands     int          `json:"commands"`
	Conflicts    int          `json:"conflicts"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization. Match events carry only match fields and resolve
// events only resolve fields.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step":  event.Step,
			"type":  event.Type,
			"input": event.Input,
		}
		switch event.Type {
		case EventMatch:
			eventMap["length"] = event.Length
			eventMap["exact"] = event.Exact
		case EventResolve:
			eventMap["args"] = nonNil(event.Args)
			eventMap["kind"] = event.Kind
			if event.Symbol != "" {
				eventMap["symbol"] = event.Symbol
			}
			if len(event.Candidates) > 0 {
				eventMap["candidates"] = event.Candidates
			}
			if event.Code != "" {
				eventMap["code"] = event.Code
			}
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"commands":      s.Commands,
		"conflicts":     s.Conflicts,
		"trace":         traceList,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Snapshot renders result as canonical JSON.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Commands:     result.Commands,
		Conflicts:    result.Conflicts,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
