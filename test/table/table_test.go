package table_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dinersim/pkg/table"
	"dinersim/test/utils"
)

var BUFFER_SIZE int = 1024
var DELAY_TIME = 10 * time.Millisecond

func TestTable(t *testing.T) {
	t.Run("AcquireRelease", testAcquireRelease)
	t.Run("AcquireBlocks", testAcquireBlocks)
	t.Run("MutualExclusion", testMutualExclusion)
	t.Run("HeldSnapshot", testHeldSnapshot)
	t.Run("PoisonPanics", testPoisonPanics)
	t.Run("DoubleReleasePanics", testDoubleReleasePanics)
	t.Run("OutOfRangePanics", testOutOfRangePanics)
}

func testAcquireRelease(t *testing.T) {
	tbl := table.New(5)
	if tbl.Size() != 5 {
		t.Fatalf("expected 5 forks, got %d", tbl.Size())
	}
	for i := 0; i < tbl.Size(); i++ {
		g := tbl.Acquire(i)
		if g.Index() != i {
			t.Errorf("guard for slot %d reports index %d", i, g.Index())
		}
		g.Release()
	}
}

// A second Acquire of the same slot must block until the guard releases.
func testAcquireBlocks(t *testing.T) {
	tbl := table.New(2)
	g := tbl.Acquire(0)

	acquired := make(chan struct{})
	go func() {
		second := tbl.Acquire(0)
		close(acquired)
		second.Release()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while the slot was held")
	case <-time.After(DELAY_TIME):
	}

	g.Release()
	select {
	case <-acquired:
	case <-time.After(10 * DELAY_TIME):
		t.Fatal("second acquire never succeeded after release")
	}
}

// Hammer one slot from many goroutines and record the holder count at
// every acquisition; it must never exceed one.
func testMutualExclusion(t *testing.T) {
	tbl := table.New(1)
	errch := make(chan error, BUFFER_SIZE)
	var holders int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				time.Sleep(utils.Jitter())
				g := tbl.Acquire(0)
				if n := atomic.AddInt32(&holders, 1); n != 1 {
					errch <- errors.New("two holders recorded for the same slot")
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&holders, -1)
				g.Release()
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-errch:
		t.Error(err)
	default:
		t.Log("no overlapping holds")
	}
}

func testHeldSnapshot(t *testing.T) {
	tbl := table.New(4)
	g1 := tbl.Acquire(1)
	g3 := tbl.Acquire(3)

	held := tbl.Held()
	if held.Count() != 2 || !held.Test(1) || !held.Test(3) {
		t.Errorf("expected slots 1 and 3 held, got %v", held)
	}

	g1.Release()
	g3.Release()
	if tbl.Held().Count() != 0 {
		t.Error("expected no held slots after release")
	}
}

// Acquiring a slot poisoned before launch must die, not error.
func testPoisonPanics(t *testing.T) {
	tbl := table.New(3)
	tbl.Poison(1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("acquire of a poisoned fork did not panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, table.ErrForkPoisoned) {
			t.Errorf("expected ErrForkPoisoned, got %v", r)
		}
	}()
	tbl.Acquire(1)
}

func testDoubleReleasePanics(t *testing.T) {
	tbl := table.New(1)
	g := tbl.Acquire(0)
	g.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("double release did not panic")
		}
	}()
	g.Release()
}

func testOutOfRangePanics(t *testing.T) {
	tbl := table.New(2)
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-range acquire did not panic")
		}
	}()
	tbl.Acquire(2)
}
