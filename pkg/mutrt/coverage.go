package mutrt

import (
	"fmt"
	"os"
	"slices"
	"sync"
)

// Coverage records, per mutation identifier, whether the identifier's call
// site was reached during the current run. Each flag flips from unreached to
// reached exactly once and is independent of every other flag, so concurrent
// writers need no ordering between identifiers.
type Coverage struct {
	hits sync.Map // uint32 -> struct{}

	mu   sync.Mutex
	file *os.File
}

// newCoverage returns a coverage map. When path is non-empty, first hits are
// additionally appended to the named file, one identifier per line. The
// write happens synchronously on the first hit so every recorded line is
// durable the moment Mark returns, even if the test process is killed before
// it exits cleanly. A site pays this cost exactly once; all later Marks for
// the same identifier stay in memory.
func newCoverage(path string) *Coverage {
	cov := &Coverage{}

	if path == "" {
		return cov
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// The run still works without the spill file; the harness will
		// simply see no coverage.
		return cov
	}

	cov.file = file

	return cov
}

// Mark flags the identifier as reached. Only the first call per identifier
// does I/O; subsequent calls re-affirm coverage and are O(1).
func (c *Coverage) Mark(id uint32) {
	if _, loaded := c.hits.LoadOrStore(id, struct{}{}); loaded {
		return
	}

	if c.file == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// An unbuffered append straight to the fd; there is nothing left to
	// flush once this returns.
	fmt.Fprintf(c.file, "%d\n", id)
}

// Covered reports whether the identifier's call site was reached.
func (c *Coverage) Covered(id uint32) bool {
	_, ok := c.hits.Load(id)
	return ok
}

// Snapshot returns the reached identifiers in ascending order.
func (c *Coverage) Snapshot() []uint32 {
	var ids []uint32

	c.hits.Range(func(key, _ any) bool {
		ids = append(ids, key.(uint32))
		return true
	})

	slices.Sort(ids)

	return ids
}
