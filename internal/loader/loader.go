package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/index"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Result contains the commands decoded from a set of sources.
type Result struct {
	Commands []*ir.Command
	Files    []string // sources read, in load order
}

// AddTo appends every loaded command to ix in load order.
func (r *Result) AddTo(ix *index.Index) error {
	return ix.AddCommands(r.Commands...)
}

// Loader reads command sources from disk.
type Loader struct {
	mode   LoadMode
	logger *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMode sets the error handling mode. The default is LoadModeFailFast.
func WithMode(mode LoadMode) Option {
	return func(l *Loader) { l.mode = mode }
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir loads every recognised source under dir.
func LoadDir(dir string, mode LoadMode) (*Result, []error) {
	return New(WithMode(mode)).Load(dir)
}

// Load reads each path, which may be a source file or a directory searched
// recursively. Directory contents load in lexical order so the index sees
// the same insertion order on every run.
func (l *Loader) Load(paths ...string) (*Result, []error) {
	result := &Result{}
	var errs []error

	for _, path := range paths {
		files, err := l.expand(path)
		if err != nil {
			errs = append(errs, err)
			if l.mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		for _, file := range files {
			cmds, fileErrs := l.LoadFile(file)
			result.Files = append(result.Files, file)
			result.Commands = append(result.Commands, cmds...)
			errs = append(errs, fileErrs...)
			if len(fileErrs) > 0 && l.mode == LoadModeFailFast {
				return result, errs
			}
		}
	}
	return result, errs
}

// expand resolves path into the list of source files it denotes.
func (l *Loader) expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSource, Message: fmt.Sprintf("cannot access source: %v", err), Source: path}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsSource(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSource, Message: fmt.Sprintf("scanning directory: %v", err), Source: path}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeSource, Message: "no command sources found", Source: path}
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile decodes one source file, choosing the format by extension.
func (l *Loader) LoadFile(path string) ([]*ir.Command, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeSource, Message: err.Error(), Source: path}}
	}

	var (
		cmds []*ir.Command
		errs []error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cmds, errs = LoadYAML(data, path, l.mode)
	case ".cue":
		cmds, errs = LoadCUE(data, path, l.mode)
	case ".strtab":
		cmds, errs = LoadStringTable(bytes.NewReader(data), path, libraryName(path), l.mode)
	default:
		return nil, []error{&LoadError{
			Code:    ErrCodeSource,
			Message: fmt.Sprintf("unrecognised source extension %q", filepath.Ext(path)),
			Source:  path,
		}}
	}
	l.logger.Debug("loaded command source", "file", path, "commands", len(cmds), "errors", len(errs))
	return cmds, errs
}

// IsSource reports whether path has a recognised source extension.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".cue", ".strtab":
		return true
	}
	return false
}

// libraryName derives a library name from a source path: its base name
// without extension.
func libraryName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
