// Package store provides a SQLite-backed catalog of command builds.
//
// A build is the ordered command list of one finalized index, saved under a
// UUIDv7 build ID. Reloading the latest build rebuilds the index without
// rereading plugin sources.
//
// # Ordering
//
//   - Builds are ordered by seq, an INTEGER assigned on insert, never by
//     wall time.
//   - Commands keep their index insertion order via position, so a reloaded
//     index resolves overloads exactly as the original did.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Command IDs and build fingerprints come from internal/ir/hash.go.
package store
