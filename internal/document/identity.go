package document

import (
	"fmt"
	"sync"
)

// Minter mints unique, monotonically increasing node ids. It is
// injected into every operation that creates nodes so tests can reset
// it between scenarios. Ids are never reissued: undo/redo frames keep
// their historical ids, and re-hydration from text always mints fresh
// ones.
type Minter struct {
	mu   sync.Mutex
	next uint64
}

// NewMinter creates a minter starting at node-1.
func NewMinter() *Minter {
	return &Minter{}
}

// MintID returns the next id in the node-<n> namespace.
func (m *Minter) MintID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++

	return fmt.Sprintf("node-%d", m.next)
}

// Count returns how many ids have been minted so far.
func (m *Minter) Count() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.next
}
