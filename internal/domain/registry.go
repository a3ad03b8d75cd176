// Package domain contains the core mutation instrumentation workflow and
// logic: the mutation registry, the AST transform pass and the test harness
// orchestration.
package domain

import (
	"iter"
	"sync"
	"sync/atomic"

	m "gomu.dev/pkg/gomu/internal/model"
)

// Registry is the append-only store of every mutation discovered during an
// instrumentation pass. It also owns identifier assignment: one process-wide
// monotonically increasing counter, reserved in contiguous blocks so each
// call site's candidates occupy [base, base+len(candidates)).
//
// The registry is handed to the transform pass explicitly rather than living
// as a package global, which keeps the pass testable in isolation.
type Registry struct {
	next atomic.Uint32

	mu      sync.RWMutex
	entries map[m.MutationID]m.MutationMeta
	order   []m.MutationID
}

// NewRegistry returns an empty registry. Identifiers start at 1.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[m.MutationID]m.MutationMeta)}
}

// Register atomically reserves a contiguous identifier block for the entries
// and stores each entry under its assigned identifier, in the given order.
// It returns the first identifier of the block, or 0 when entries is empty.
// Concurrent callers receive disjoint, gap-free blocks.
func (r *Registry) Register(entries []m.MutationMeta) m.MutationID {
	count := uint32(len(entries))
	if count == 0 {
		return 0
	}

	base := r.next.Add(count) - count + 1

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, meta := range entries {
		id := m.MutationID(base + uint32(i))
		// The oracle records coverage under the block's first identifier;
		// stamping it here lets reporting map any mutation back to its site.
		meta.Base = m.MutationID(base)
		r.entries[id] = meta
		r.order = append(r.order, id)
	}

	return m.MutationID(base)
}

// Lookup returns the metadata stored under the identifier.
func (r *Registry) Lookup(id m.MutationID) (m.MutationMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.entries[id]

	return meta, ok
}

// Len returns the number of registered mutations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All yields every registered mutation in registration order. The sequence
// is restartable; it iterates over a snapshot taken when All is called.
func (r *Registry) All() iter.Seq2[m.MutationID, m.MutationMeta] {
	r.mu.RLock()
	ids := make([]m.MutationID, len(r.order))
	copy(ids, r.order)
	r.mu.RUnlock()

	return func(yield func(m.MutationID, m.MutationMeta) bool) {
		for _, id := range ids {
			meta, ok := r.Lookup(id)
			if !ok {
				continue
			}

			if !yield(id, meta) {
				return
			}
		}
	}
}

// Mutations returns the registered mutations as a slice in registration
// order, ready for manifest persistence.
func (r *Registry) Mutations() []m.Mutation {
	out := make([]m.Mutation, 0, r.Len())

	for id, meta := range r.All() {
		out = append(out, m.Mutation{ID: id, Meta: meta})
	}

	return out
}
