// Package matcher finds where a multi-word command name ends in lexer input.
//
// A Matcher is a read-only snapshot of an index's canonical names, sorted
// byte-wise. FindLongestMatching narrows the sorted names one input byte at
// a time with two binary searches per byte, remembering a checkpoint every
// time the input sits on a word boundary. Checkpoints are then tried
// longest-first, so "DELETE OBJECT" still matches exactly even though
// "DELETE OBJECTS" keeps the candidate range alive one byte longer.
//
// Comparison is ASCII case-insensitive. Loaders guarantee command names
// are printable ASCII, so byte-wise folding agrees with ir.CanonicalName.
//
// The snapshot is not a live view. Stale reports whether the source index
// changed since the snapshot was taken; callers rebuild with New.
package matcher
