// Package harness provides conformance testing for command resolution.
//
// The harness loads plugin sources, builds and freezes an index, then
// replays match and resolve steps from a YAML scenario, checking every
// outcome and recording a trace for golden comparison.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	sources:
//	  - ../plugins/core.yaml
//	plugins:
//	  - library: one
//	    entries: ["FOO%L%FooInt%value"]
//	conflicts: 0
//	reload: true
//	steps:
//	  - match: "randomize matrix 1, 2"
//	    expect: {length: 16, exact: true}
//	  - resolve: FOO
//	    args: [Byte]
//	    expect: {kind: ambiguous, candidates: [FooInt, FooDword]}
//
// Source paths are relative to the scenario file. Plugin entries use the
// string-table syntax of loader.ParseStringTableEntry. With reload set,
// the index is saved to an in-memory catalog and rebuilt from it before the
// steps run, so the scenario also checks that persisted builds resolve the
// same way.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/overloads.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
