package matcher

import (
	"slices"
	"sort"
	"strings"
)

// Source is what a Matcher snapshots. *index.Index satisfies it.
type Source interface {
	Names() []string
	Version() uint64
}

// Match is the result of FindLongestMatching.
//
// When Exact is true, Length is the byte length of the longest command
// name that is a case-insensitive prefix of the input ending on a word
// boundary. When Exact is false, Length is how far the input agreed with
// some name before diverging; no command was found.
type Match struct {
	Length int
	Exact  bool
}

// Matcher is an immutable snapshot of command names organised for
// longest-prefix matching. It is safe for concurrent use.
type Matcher struct {
	names        []string // folded, sorted ascending byte-wise, distinct
	longest      int
	maxWordCount int
	version      uint64
}

// New snapshots the names of src.
func New(src Source) *Matcher {
	return newFromNames(src.Names(), src.Version())
}

// NewFromNames builds a matcher over an explicit name list. Names are
// folded and deduplicated; the slice is not retained.
func NewFromNames(names []string) *Matcher {
	return newFromNames(names, 0)
}

func newFromNames(in []string, version uint64) *Matcher {
	names := make([]string, 0, len(in))
	for _, n := range in {
		n = foldString(strings.TrimSpace(n))
		if n != "" {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)

	m := &Matcher{names: names, version: version}
	for _, n := range names {
		m.longest = max(m.longest, len(n))
		m.maxWordCount = max(m.maxWordCount, len(strings.Fields(n)))
	}
	return m
}

// FindLongestMatching returns the longest command name that is a prefix of
// input, compared case-insensitively.
func (m *Matcher) FindLongestMatching(input string) Match {
	first, last := 0, len(m.names)
	matched := 0
	var checkpoints []int

	for matched < len(input) {
		c := fold(input[matched])
		lo := first + sort.Search(last-first, func(i int) bool {
			return charAt(m.names[first+i], matched) >= int(c)
		})
		hi := lo + sort.Search(last-lo, func(i int) bool {
			return charAt(m.names[lo+i], matched) > int(c)
		})
		if lo == hi {
			break
		}
		first, last = lo, hi
		matched++

		// A word ends at the end of input, before a non-identifier byte, or
		// after one (names such as STR$ end in punctuation).
		if matched == len(input) || !isSymbolChar(input[matched]) || !isSymbolChar(input[matched-1]) {
			checkpoints = append(checkpoints, first)
		}
	}

	for i := len(checkpoints) - 1; i >= 0; i-- {
		c := checkpoints[i]
		if c >= len(m.names) {
			continue
		}
		name := m.names[c]
		if len(name) > len(input) || !equalFold(input[:len(name)], name) {
			continue
		}
		// A checkpoint taken at a shorter boundary may point at a longer
		// name; it only counts if the input also ends a word there. A name
		// ending in punctuation ends its own word.
		if len(name) < len(input) && isSymbolChar(name[len(name)-1]) && isSymbolChar(input[len(name)]) {
			continue
		}
		return Match{Length: len(name), Exact: true}
	}
	return Match{Length: matched, Exact: false}
}

// LongestCommandLength returns the byte length of the longest name.
func (m *Matcher) LongestCommandLength() int {
	return m.longest
}

// LongestCommandWordCount returns the largest number of space-separated
// words in any name.
func (m *Matcher) LongestCommandWordCount() int {
	return m.maxWordCount
}

// Len returns the number of distinct names.
func (m *Matcher) Len() int {
	return len(m.names)
}

// Names returns a copy of the sorted, folded names.
func (m *Matcher) Names() []string {
	return slices.Clone(m.names)
}

// Version returns the source version the snapshot was taken at.
func (m *Matcher) Version() uint64 {
	return m.version
}

// Stale reports whether src has changed since the snapshot was taken.
func (m *Matcher) Stale(src Source) bool {
	return src.Version() != m.version
}

// charAt returns the byte at pos, or -1 past the end so that shorter names
// sort before their extensions, matching byte-wise string order.
func charAt(s string, pos int) int {
	if pos >= len(s) {
		return -1
	}
	return int(s[pos])
}

// isSymbolChar reports whether c can continue an identifier.
func isSymbolChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func fold(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func foldString(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = fold(c)
	}
	return string(b)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if fold(a[i]) != fold(b[i]) {
			return false
		}
	}
	return true
}
