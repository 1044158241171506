package table

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// A fork was left in an inconsistent state by a holder that died with it.
// Always raised as a panic, never returned: a poisoned fork means a
// programming defect somewhere, not a runtime condition to handle.
var ErrForkPoisoned = errors.New("table: fork poisoned")

// Table is a fixed row of forks, one exclusive lock per slot.
// The row itself never changes after New; only the individual
// slots are contended. Shared by pointer across all diners.
type Table struct {
	forks []sync.Mutex

	// Instrumentation state, guarded by mtx (never by the slot locks).
	mtx      sync.Mutex
	held     *bitset.BitSet // slots with a live Guard
	poisoned *bitset.BitSet // slots abandoned by a dead holder
}

// Guard grants exclusive access to one fork until released.
// Callers defer Release so the fork frees on every exit path.
type Guard struct {
	t        *Table
	index    int
	released bool
}

// New creates a table with n free forks.
func New(n int) *Table {
	return &Table{
		forks:    make([]sync.Mutex, n),
		held:     bitset.New(uint(n)),
		poisoned: bitset.New(uint(n)),
	}
}

// Size returns the number of forks.
func (t *Table) Size() int {
	return len(t.forks)
}

// Acquire blocks until the fork at index is free, then returns its guard.
// Panics on a poisoned fork. There is no timeout and no try variant.
func (t *Table) Acquire(index int) *Guard {
	if index < 0 || index >= len(t.forks) {
		panic(fmt.Sprintf("table: fork index %d out of range [0, %d)", index, len(t.forks)))
	}
	// Check poison before blocking on the slot, so a poisoned fork
	// kills every would-be holder instead of wedging them behind the
	// mutex of the first victim.
	t.mtx.Lock()
	poisoned := t.poisoned.Test(uint(index))
	t.mtx.Unlock()
	if poisoned {
		panic(ErrForkPoisoned)
	}

	t.forks[index].Lock()

	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.held.Test(uint(index)) {
		// The slot lock is ours, so a set held bit means bookkeeping broke.
		panic(ErrForkPoisoned)
	}
	t.held.Set(uint(index))
	return &Guard{t: t, index: index}
}

// Poison marks the fork at index as abandoned by a dead holder.
// The next Acquire of that slot panics.
func (t *Table) Poison(index int) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.poisoned.Set(uint(index))
}

// Held returns a snapshot of the currently held slots.
func (t *Table) Held() *bitset.BitSet {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.held.Clone()
}

// Release frees the guarded fork. Releasing a guard twice panics.
func (g *Guard) Release() {
	g.t.mtx.Lock()
	if g.released || !g.t.held.Test(uint(g.index)) {
		g.t.mtx.Unlock()
		panic(ErrForkPoisoned)
	}
	g.released = true
	g.t.held.Clear(uint(g.index))
	g.t.mtx.Unlock()
	g.t.forks[g.index].Unlock()
}

// Index returns the slot this guard holds.
func (g *Guard) Index() int {
	return g.index
}
