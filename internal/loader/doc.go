// Package loader turns plugin command descriptions into ir.Command values.
//
// Three source formats are understood:
//
//   - YAML manifests (.yaml, .yml)
//   - CUE manifests (.cue)
//   - plugin string tables (.strtab), one NAME%TYPES%SYMBOL%ARGS entry per line
//
// Every format is reduced to RawRecord values and decoded by Decode, the
// single place where one-character ABI type codes are interpreted.
package loader
