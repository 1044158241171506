package dinner

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"dinersim/pkg/config"
	"dinersim/pkg/table"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Error for when a seating's claim graph admits circular wait.
var ErrCircularWait = errors.New("dinner: seating admits circular wait")

// syncWriter serializes the philosophers' eating lines so concurrent
// writes never interleave mid-line.
type syncWriter struct {
	mtx sync.Mutex
	w   io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mtx.Lock()
	defer sw.mtx.Unlock()
	return sw.w.Write(p)
}

// A Sitting runs one full dinner: a fixed seating of philosophers, a
// table with one fork per seat, and an output writer for the eating
// lines. Each sitting gets a uuid so concurrent runs can be told
// apart in diagnostics.
type Sitting struct {
	id      uuid.UUID
	seats   []Philosopher
	tbl     *table.Table
	out     io.Writer
	eatTime time.Duration
	jitter  func() time.Duration
}

// NewSitting validates the seating and builds a table with exactly one
// fork per seat. Errors on a roster smaller than two seats or on a
// fork index outside [0, len(seats)).
func NewSitting(seats []Philosopher, out io.Writer) (*Sitting, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("dinner: need at least 2 seats, got %d", len(seats))
	}
	n := len(seats)
	for _, p := range seats {
		left, right := p.Forks()
		if left < 0 || left >= n || right < 0 || right >= n {
			return nil, fmt.Errorf("dinner: seat %q references fork outside [0, %d)", p.GetName(), n)
		}
		if left == right {
			// Acquiring the same slot twice blocks on itself forever.
			return nil, fmt.Errorf("dinner: seat %q needs fork %d twice", p.GetName(), left)
		}
	}
	return &Sitting{
		id:      uuid.New(),
		seats:   seats,
		tbl:     table.New(n),
		out:     &syncWriter{w: out},
		eatTime: config.EatDuration,
	}, nil
}

func (s *Sitting) ID() uuid.UUID {
	return s.id
}

func (s *Sitting) Table() *table.Table {
	return s.tbl
}

// SetEatDuration overrides how long each philosopher holds both forks.
// The stress harness and tests shorten it; the demo keeps the default.
func (s *Sitting) SetEatDuration(d time.Duration) {
	s.eatTime = d
}

// SetStartJitter delays each philosopher's launch by f() to shake up
// the schedule. Must be safe for concurrent use; nil disables it.
func (s *Sitting) SetStartJitter(f func() time.Duration) {
	s.jitter = f
}

// PreflightCheck refuses seatings whose claim graph has a cycle, since
// those can deadlock under an adversarial schedule. Run does not call
// this; the naive-mode demos launch cyclic seatings on purpose.
func (s *Sitting) PreflightCheck() error {
	if BuildClaimGraph(s.seats).DetectCycle() {
		return ErrCircularWait
	}
	return nil
}

// Run launches one goroutine per philosopher and blocks until every
// one of them has dined. A philosopher that dies (poisoned fork) is
// reported as an error naming the seat; the first such failure is
// returned and nothing continues with partial results.
func (s *Sitting) Run() error {
	g := new(errgroup.Group)
	for _, p := range s.seats {
		p := p
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("dinner: philosopher %s died: %v", p.GetName(), r)
				}
			}()
			if s.jitter != nil {
				time.Sleep(s.jitter())
			}
			p.DineFor(s.tbl, s.out, s.eatTime)
			return nil
		})
	}
	return g.Wait()
}

// ClassicSitting seats the standard five-philosopher ring writing to out.
func ClassicSitting(out io.Writer) (*Sitting, error) {
	return NewSitting(NewRing(config.NumSeats), out)
}
