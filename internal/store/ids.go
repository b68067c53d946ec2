package store

import "github.com/google/uuid"

// IDGenerator produces build IDs. Implementations must be safe for
// concurrent use and never repeat an ID within one catalog.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 build IDs. It is the
// default.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 in its hyphenated string form.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the build ID generator, typically with a
// deterministic one in tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.ids = gen }
}
