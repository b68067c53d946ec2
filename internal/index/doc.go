// Package index owns the set of plugin commands known to one compilation.
//
// An Index has a two-phase lifecycle:
//
//  1. Populate: loaders call AddCommand for every decoded command. Exact
//     duplicates and conflicting overloads are accepted at this stage.
//  2. Freeze: FindConflicts runs once, reports every pair of commands that
//     share a name and full signature, and makes the index read-only.
//
// After FindConflicts the index is never mutated again, so the matcher,
// the resolver and any number of goroutines may read it without locking.
//
// Each AddCommand bumps Version. A matcher snapshot taken earlier compares
// versions to know it must be rebuilt.
package index
