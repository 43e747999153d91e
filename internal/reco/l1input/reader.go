package l1input

import (
	"errors"
	"fmt"
)

// ErrEntryOutOfRange is returned when a reader is asked for a missing entry.
var ErrEntryOutOfRange = errors.New("entry index out of range")

// Reader is the external collaborator that exposes a sample's entries as
// counted, positionally ordered arrays. Implementations backed by files live
// outside the core; each processing shard owns its own Reader.
type Reader interface {
	// Sample returns the descriptor shared by every entry of the reader.
	Sample() *Sample
	// NumEntries returns the number of entries available.
	NumEntries() int
	// Entry returns entry i. The returned Entry belongs to the caller.
	Entry(i int) (*Entry, error)
}

// MemoryReader serves entries held in memory.
type MemoryReader struct {
	sample  *Sample
	entries []*Entry
}

// NewMemoryReader creates a reader over the given entries.
func NewMemoryReader(sample *Sample, entries ...*Entry) *MemoryReader {
	return &MemoryReader{sample: sample, entries: entries}
}

// Sample implements Reader.
func (r *MemoryReader) Sample() *Sample { return r.sample }

// NumEntries implements Reader.
func (r *MemoryReader) NumEntries() int { return len(r.entries) }

// Entry implements Reader. The stored entry is cloned so callers may apply
// EnforceLimits without changing what later calls return.
func (r *MemoryReader) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(r.entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntryOutOfRange, i, len(r.entries))
	}
	return r.entries[i].Clone(), nil
}
