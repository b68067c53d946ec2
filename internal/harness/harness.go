package harness

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/index"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/loader"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/matcher"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/resolver"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/store"
)

// Harness replays scenario steps against a frozen index.
type Harness struct {
	index   *index.Index
	matcher *matcher.Matcher
	logger  *log.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for index and loader diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Run executes a test scenario and returns the result.
//
// An error is returned only when the scenario cannot be set up (sources
// fail to load, entries fail to decode, the catalog round trip fails).
// Failed expectations are reported in Result.Errors.
//
// Execution flow:
// 1. Load sources and inline plugin entries into a fresh index
// 2. Freeze the index and compare the conflict count
// 3. Optionally rebuild the index from an in-memory catalog
// 4. Replay steps against a matcher snapshot and the resolver
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	cmds, err := collectCommands(scenario, o.logger)
	if err != nil {
		return nil, err
	}

	if scenario.Reload {
		if cmds, err = reload(cmds); err != nil {
			return nil, err
		}
	}

	ix := index.New(index.WithLogger(o.logger))
	if err := ix.AddCommands(cmds...); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	result := NewResult()
	result.Commands = ix.Len()
	ix.FindConflicts()
	result.Conflicts = len(ix.Conflicts())

	wantConflicts := 0
	if scenario.Conflicts != nil {
		wantConflicts = *scenario.Conflicts
	}
	if result.Conflicts != wantConflicts {
		result.AddError(fmt.Sprintf("expected %d conflicts, got %d: %v", wantConflicts, result.Conflicts, ix.Err()))
	}

	h := &Harness{
		index:   ix,
		matcher: matcher.New(ix),
		logger:  o.logger,
	}
	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// collectCommands loads every source and inline entry in declaration order.
func collectCommands(scenario *Scenario, logger *log.Logger) ([]*ir.Command, error) {
	var cmds []*ir.Command
	if len(scenario.Sources) > 0 {
		l := loader.New(loader.WithMode(loader.LoadModeCollectAll), loader.WithLogger(logger))
		res, errs := l.Load(scenario.Sources...)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load sources: %w", errors.Join(errs...))
		}
		cmds = append(cmds, res.Commands...)
	}

	for _, p := range scenario.Plugins {
		prov := ir.Provenance{Library: p.Library, Source: scenario.Name}
		for i, entry := range p.Entries {
			rec, err := loader.ParseStringTableEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("plugin %s entry %d: %w", p.Library, i, err)
			}
			cmd, err := loader.Decode(rec, prov)
			if err != nil {
				return nil, fmt.Errorf("plugin %s entry %d: %w", p.Library, i, err)
			}
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// reload saves cmds to a fresh in-memory catalog and reads them back.
func reload(cmds []*ir.Command) ([]*ir.Command, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	build, _, err := st.SaveBuild(ctx, cmds, "harness")
	if err != nil {
		return nil, err
	}
	return st.LoadCommands(ctx, build.ID)
}

// executeStep runs one step, records its trace event and checks it.
func (h *Harness) executeStep(i int, step Step, result *Result) error {
	if step.IsMatch() {
		m := h.matcher.FindLongestMatching(step.Match)
		ev := TraceEvent{Step: i, Type: EventMatch, Input: step.Match, Length: m.Length, Exact: m.Exact}
		result.AddTrace(ev)
		h.logger.Debug("match step", "step", i, "input", step.Match, "length", m.Length, "exact", m.Exact)
		return checkMatch(ev, step.Expect)
	}

	args, err := step.ArgTypes()
	if err != nil {
		return fmt.Errorf("steps[%d]: %w", i, err)
	}
	res := resolver.Resolve(h.index, step.Resolve, args)
	ev := TraceEvent{
		Step:  i,
		Type:  EventResolve,
		Input: step.Resolve,
		Args:  typeNames(args),
		Kind:  res.Kind.String(),
	}
	if res.Command != nil {
		ev.Symbol = res.Command.Symbol
	}
	if res.Kind != resolver.Unique {
		for _, c := range res.Candidates {
			ev.Candidates = append(ev.Candidates, c.Symbol)
		}
		var oe *resolver.OverloadError
		if errors.As(res.Err(), &oe) {
			ev.Code = string(oe.Code)
		}
	}
	result.AddTrace(ev)
	h.logger.Debug("resolve step", "step", i, "name", step.Resolve, "kind", ev.Kind)
	return checkResolve(ev, step.Expect)
}

func typeNames(types []ir.ParamType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
