package dinner

import (
	"fmt"
	"io"
	"time"

	"dinersim/pkg/config"
	"dinersim/pkg/table"
)

// A Philosopher is one seat at the table: a name plus the two fork
// slots it needs before it can eat. Immutable after construction.
type Philosopher struct {
	name  string
	left  int
	right int
}

func NewPhilosopher(name string, left int, right int) Philosopher {
	return Philosopher{name: name, left: left, right: right}
}

func (p Philosopher) GetName() string {
	return p.name
}

// Forks returns the (left, right) slot pair in acquisition order.
func (p Philosopher) Forks() (left int, right int) {
	return p.left, p.right
}

// Dine runs one acquire-both/eat/release cycle holding the forks for
// the standard config.EatDuration.
func (p Philosopher) Dine(tbl *table.Table, out io.Writer) {
	p.DineFor(tbl, out, config.EatDuration)
}

// DineFor blocks on the left fork, then on the right fork, eats for
// the given duration, then lets both guards go. A poisoned fork
// panics out of here; there is no retry.
func (p Philosopher) DineFor(tbl *table.Table, out io.Writer, eatTime time.Duration) {
	left := tbl.Acquire(p.left)
	defer left.Release()
	right := tbl.Acquire(p.right)
	defer right.Release()

	fmt.Fprintf(out, "%s is eating.\n", p.name)
	time.Sleep(eatTime)
	fmt.Fprintf(out, "%s is done eating.\n", p.name)
}
