package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/resolver"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sources lists manifest files or directories to load.
	// Paths are relative to the scenario file location.
	Sources []string `yaml:"sources,omitempty"`

	// Plugins declares commands inline as string-table entries.
	Plugins []Plugin `yaml:"plugins,omitempty"`

	// Conflicts is the expected number of index conflicts. Nil means zero.
	Conflicts *int `yaml:"conflicts,omitempty"`

	// Reload round-trips the index through an in-memory catalog before the
	// steps run.
	Reload bool `yaml:"reload,omitempty"`

	// Steps are replayed in order against the frozen index.
	Steps []Step `yaml:"steps"`
}

// Plugin is an inline library of string-table entries.
type Plugin struct {
	Library string   `yaml:"library"`
	Entries []string `yaml:"entries"`
}

// Step is either a match or a resolve, with its expected outcome.
type Step struct {
	// Match is source text handed to the matcher.
	Match string `yaml:"match,omitempty"`

	// Resolve is a command name handed to the resolver with Args.
	Resolve string `yaml:"resolve,omitempty"`

	// Args are argument type names or ABI codes (resolve only).
	Args []string `yaml:"args,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect is the expected outcome of a step. Unset fields are not checked.
type Expect struct {
	// Match outcome.
	Length *int  `yaml:"length,omitempty"`
	Exact  *bool `yaml:"exact,omitempty"`

	// Resolve outcome. Kind is unique, ambiguous or no_match.
	Kind       string   `yaml:"kind,omitempty"`
	Symbol     string   `yaml:"symbol,omitempty"`
	Candidates []string `yaml:"candidates,omitempty"` // symbols, in order
	Code       string   `yaml:"code,omitempty"`
}

// IsMatch reports whether s is a match step.
func (s Step) IsMatch() bool {
	return s.Match != ""
}

// ArgTypes parses Args.
func (s Step) ArgTypes() ([]ir.ParamType, error) {
	types := make([]ir.ParamType, len(s.Args))
	for i, a := range s.Args {
		t, err := ir.ParseParamType(a)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// LoadScenario reads and parses a scenario YAML file, resolving source
// paths relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving source paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, src := range scenario.Sources {
		if !filepath.IsAbs(src) && basePath != "" {
			scenario.Sources[i] = filepath.Join(basePath, src)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Sources) == 0 && len(s.Plugins) == 0 {
		return fmt.Errorf("sources or plugins are required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, src := range s.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("source not found: %s", src)
		}
	}

	for i, p := range s.Plugins {
		if p.Library == "" {
			return fmt.Errorf("plugins[%d]: library is required", i)
		}
		if len(p.Entries) == 0 {
			return fmt.Errorf("plugins[%d]: entries list is required and must be non-empty", i)
		}
	}

	if s.Conflicts != nil && *s.Conflicts < 0 {
		return fmt.Errorf("conflicts must not be negative")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its type.
func validateStep(index int, s Step) error {
	switch {
	case s.Match != "" && s.Resolve != "":
		return fmt.Errorf("steps[%d]: match and resolve are mutually exclusive", index)
	case s.Match != "":
		if len(s.Args) > 0 {
			return fmt.Errorf("steps[%d]: args only apply to resolve", index)
		}
		if s.Expect.Length == nil || s.Expect.Exact == nil {
			return fmt.Errorf("steps[%d]: match requires expect.length and expect.exact", index)
		}
	case s.Resolve != "":
		if _, err := s.ArgTypes(); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
		switch s.Expect.Kind {
		case resolver.Unique.String(), resolver.Ambiguous.String(), resolver.NoMatch.String():
		default:
			return fmt.Errorf("steps[%d]: expect.kind must be unique, ambiguous or no_match, got %q", index, s.Expect.Kind)
		}
		if s.Expect.Symbol != "" && s.Expect.Kind != resolver.Unique.String() {
			return fmt.Errorf("steps[%d]: expect.symbol only applies to unique", index)
		}
	default:
		return fmt.Errorf("steps[%d]: match or resolve is required", index)
	}
	return nil
}
