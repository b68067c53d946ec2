package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario directory holds no
// scenario files.
type ScenarioNotFoundError struct {
	Dir string
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("no scenarios found in %s", e.Dir)
}

// SuiteEntry is the outcome of one scenario file in a suite run.
type SuiteEntry struct {
	Path     string
	Scenario *Scenario // nil if the file failed to load
	Result   *Result   // nil if Err is set
	Err      error
}

// Passed reports whether the scenario loaded, ran and met every expectation.
func (e SuiteEntry) Passed() bool {
	return e.Err == nil && e.Result != nil && e.Result.Pass
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &ScenarioNotFoundError{Dir: dir}
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario file. It never stops early.
func RunSuite(paths []string, opts ...Option) []SuiteEntry {
	entries := make([]SuiteEntry, 0, len(paths))
	for _, path := range paths {
		entry := SuiteEntry{Path: path}
		entry.Scenario, entry.Err = LoadScenario(path)
		if entry.Err == nil {
			entry.Result, entry.Err = Run(entry.Scenario, opts...)
		}
		entries = append(entries, entry)
	}
	return entries
}
