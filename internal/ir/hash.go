package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCommand       = "odb/command/v1"
	DomainCommandRecord = "odb/command-record/v1"
	DomainBuild         = "odb/build/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CommandID computes the content-addressed ID of a command.
//
// The ID covers the canonical name, target symbol, return type, parameter
// types and directions, and the providing library. Display casing, parameter
// names, help references and the provenance source path are excluded, so the
// same plugin loaded from a different directory keeps its IDs.
func CommandID(cmd *Command) (string, error) {
	params := make([]any, len(cmd.Params))
	for i, p := range cmd.Params {
		params[i] = map[string]any{
			"type":      string(rune(p.Type.Code())),
			"direction": p.Direction.String(),
		}
	}
	obj := map[string]any{
		"name":    cmd.CanonicalName,
		"symbol":  cmd.Symbol,
		"return":  string(rune(cmd.ReturnType.Code())),
		"params":  params,
		"library": cmd.Provenance.Library,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CommandID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCommand, canonical), nil
}

// MustCommandID is like CommandID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCommandID(cmd *Command) string {
	id, err := CommandID(cmd)
	if err != nil {
		panic(err)
	}
	return id
}

// RecordDigest hashes every field of a command, including those CommandID
// leaves out (display name, parameter names, help reference and source).
// Two commands with the same digest store identically.
func RecordDigest(cmd *Command) (string, error) {
	params := make([]any, len(cmd.Params))
	for i, p := range cmd.Params {
		params[i] = map[string]any{
			"type":      string(rune(p.Type.Code())),
			"direction": p.Direction.String(),
			"name":      p.Name,
		}
	}
	obj := map[string]any{
		"name":           cmd.Name,
		"canonical_name": cmd.CanonicalName,
		"symbol":         cmd.Symbol,
		"return":         string(rune(cmd.ReturnType.Code())),
		"params":         params,
		"library":        cmd.Provenance.Library,
		"source":         cmd.Provenance.Source,
		"help":           cmd.HelpRef,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RecordDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCommandRecord, canonical), nil
}

// BuildFingerprint computes the identity of an ordered command set from
// per-command RecordDigest values. Two loads that yield the same commands,
// field for field, in the same order share a fingerprint.
func BuildFingerprint(digests []string) (string, error) {
	canonical, err := MarshalCanonical(digests)
	if err != nil {
		return "", fmt.Errorf("BuildFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBuild, canonical), nil
}
