package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// ErrNoBuilds is returned by LatestBuild on an empty catalog.
var ErrNoBuilds = errors.New("catalog has no builds")

// ErrBuildNotFound is returned for an unknown build ID.
var ErrBuildNotFound = errors.New("build not found")

// Build describes one saved command set.
type Build struct {
	ID           string `json:"id"`  // UUIDv7
	Seq          int64  `json:"seq"` // insertion order
	Label        string `json:"label,omitempty"`
	Fingerprint  string `json:"fingerprint"`
	CommandCount int    `json:"command_count"`
}

// SaveBuild stores cmds, in order, as a new build.
//
// The fingerprint covers every stored field, so a manifest edit that keeps
// command IDs (a renamed parameter, new help text) still makes a new build.
// If the latest build has the same fingerprint, nothing is written and that
// build is returned with created == false.
func (s *Store) SaveBuild(ctx context.Context, cmds []*ir.Command, label string) (b Build, created bool, err error) {
	ids := make([]string, len(cmds))
	digests := make([]string, len(cmds))
	for i, cmd := range cmds {
		if ids[i], err = ir.CommandID(cmd); err != nil {
			return Build{}, false, fmt.Errorf("save build: %w", err)
		}
		if digests[i], err = ir.RecordDigest(cmd); err != nil {
			return Build{}, false, fmt.Errorf("save build: %w", err)
		}
	}
	fingerprint, err := ir.BuildFingerprint(digests)
	if err != nil {
		return Build{}, false, fmt.Errorf("save build: %w", err)
	}

	latest, err := s.LatestBuild(ctx)
	switch {
	case err == nil && latest.Fingerprint == fingerprint:
		return latest, false, nil
	case err != nil && !errors.Is(err, ErrNoBuilds):
		return Build{}, false, fmt.Errorf("save build: %w", err)
	}

	b = Build{ID: s.ids.Generate(), Label: label, Fingerprint: fingerprint, CommandCount: len(cmds)}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Build{}, false, fmt.Errorf("save build: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, label, fingerprint, command_count)
		VALUES (?, ?, ?, ?)
	`, b.ID, b.Label, b.Fingerprint, b.CommandCount)
	if err != nil {
		return Build{}, false, fmt.Errorf("save build: insert build: %w", err)
	}
	if b.Seq, err = res.LastInsertId(); err != nil {
		return Build{}, false, fmt.Errorf("save build: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commands
		(build_id, position, command_id, name, canonical_name, symbol, return_type, params, library, source, help_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Build{}, false, fmt.Errorf("save build: prepare: %w", err)
	}
	defer stmt.Close()

	for i, cmd := range cmds {
		params, err := marshalParams(cmd.Params)
		if err != nil {
			return Build{}, false, fmt.Errorf("save build: %s: %w", cmd.Name, err)
		}
		_, err = stmt.ExecContext(ctx,
			b.ID,
			i,
			ids[i],
			cmd.Name,
			cmd.CanonicalName,
			cmd.Symbol,
			string(rune(cmd.ReturnType.Code())),
			params,
			cmd.Provenance.Library,
			cmd.Provenance.Source,
			cmd.HelpRef,
		)
		if err != nil {
			return Build{}, false, fmt.Errorf("save build: insert %s: %w", cmd.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Build{}, false, fmt.Errorf("save build: commit: %w", err)
	}
	return b, true, nil
}

// LatestBuild returns the most recently saved build.
func (s *Store) LatestBuild(ctx context.Context) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, label, fingerprint, command_count
		FROM builds
		ORDER BY seq DESC
		LIMIT 1
	`)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, ErrNoBuilds
	}
	return b, err
}

// GetBuild returns the build with the given ID.
func (s *Store) GetBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, label, fingerprint, command_count
		FROM builds
		WHERE id = ?
	`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return b, err
}

// Builds lists every build, oldest first.
func (s *Store) Builds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, label, fingerprint, command_count
		FROM builds
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// LoadCommands returns the commands of a build in their saved order.
func (s *Store) LoadCommands(ctx context.Context, buildID string) ([]*ir.Command, error) {
	if _, err := s.GetBuild(ctx, buildID); err != nil {
		return nil, err
	}
	return s.queryCommands(ctx, `
		SELECT name, symbol, return_type, params, library, source, help_ref
		FROM commands
		WHERE build_id = ?
		ORDER BY position ASC
	`, buildID)
}

// FindCommands returns the overloads of name in a build, in saved order,
// without loading the whole build.
func (s *Store) FindCommands(ctx context.Context, buildID, name string) ([]*ir.Command, error) {
	return s.queryCommands(ctx, `
		SELECT name, symbol, return_type, params, library, source, help_ref
		FROM commands
		WHERE build_id = ? AND canonical_name = ?
		ORDER BY position ASC
	`, buildID, ir.CanonicalName(name))
}

// DeleteBuild removes a build and its commands.
func (s *Store) DeleteBuild(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM builds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete build: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete build: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return nil
}

func (s *Store) queryCommands(ctx context.Context, query string, args ...any) ([]*ir.Command, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	cmds := []*ir.Command{}
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return cmds, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	if err := row.Scan(&b.Seq, &b.ID, &b.Label, &b.Fingerprint, &b.CommandCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Build{}, err
		}
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	return b, nil
}

func scanCommand(row scanner) (*ir.Command, error) {
	var (
		name, symbol, ret, paramsJSON string
		prov                          ir.Provenance
		help                          string
	)
	if err := row.Scan(&name, &symbol, &ret, &paramsJSON, &prov.Library, &prov.Source, &help); err != nil {
		return nil, fmt.Errorf("scan command: %w", err)
	}
	retType, err := parseCode(ret)
	if err != nil {
		return nil, fmt.Errorf("scan command %s: return: %w", name, err)
	}
	params, err := unmarshalParams(paramsJSON)
	if err != nil {
		return nil, fmt.Errorf("scan command %s: %w", name, err)
	}
	return ir.NewCommand(name, symbol, retType, params, prov, help)
}
