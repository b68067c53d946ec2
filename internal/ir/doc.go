// Package ir provides the command model shared by the index, matcher and
// resolver.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - ParamType is a closed enumeration; the one-character plugin ABI codes
//     are decoded once, in ParseTypeCode, and never re-read elsewhere
//   - Commands are immutable after NewCommand
//   - CanonicalName is the only folding used for lookup
//   - All JSON tags use snake_case
package ir
