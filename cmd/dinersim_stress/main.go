package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"dinersim/pkg/config"
	"dinersim/pkg/dinner"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
)

var MAX_DELAY int64 = 10

// lockedRand guards a rand.Rand so the per-trial jitter stream can be
// drawn from every philosopher goroutine at once.
type lockedRand struct {
	mtx sync.Mutex
	r   *rand.Rand
}

func (l *lockedRand) jitter() time.Duration {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return time.Duration(l.r.Int63n(MAX_DELAY)+1) * time.Millisecond
}

// trialSeed derives a stable per-trial seed from the run id, so a
// whole stress run can be replayed from one -seed value.
func trialSeed(runId uuid.UUID, base int64, trial int) int64 {
	return base ^ int64(xxhash.Sum64([]byte(fmt.Sprintf("%v/%d", runId, trial))))
}

// runTrial runs one watchdog-bounded sitting.
// Returns true if every philosopher finished before the timeout.
func runTrial(seats []dinner.Philosopher, out io.Writer, eat time.Duration, seed int64, timeout time.Duration) (completed bool, err error) {
	s, err := dinner.NewSitting(seats, out)
	if err != nil {
		return false, err
	}
	s.SetEatDuration(eat)
	lr := &lockedRand{r: rand.New(rand.NewSource(seed))}
	s.SetStartJitter(lr.jitter)

	done := make(chan error, 1)
	go func() {
		done <- s.Run()
	}()
	select {
	case err = <-done:
		return err == nil, err
	case <-time.After(timeout):
		// Deadlocked trials abandon their goroutines along with the table.
		return false, nil
	}
}

// Stress the seating protocol.
func main() {
	// Set up flags.
	var nFlag = flag.Int("n", config.NumSeats, "number of seats in the ring")
	var trialsFlag = flag.Int("trials", 100, "number of trials to run")
	var naiveFlag = flag.Bool("naive", false, "use the uniform deadlock-prone seating")
	var eatFlag = flag.Duration("eat", 5*time.Millisecond, "how long each philosopher holds both forks")
	var timeoutFlag = flag.Duration("timeout", 10*time.Second, "per-trial watchdog")
	var seedFlag = flag.Int64("seed", 0, "base seed for scheduling jitter (0 picks one)")
	flag.Parse()

	if *nFlag < 2 {
		log.Fatal("need at least 2 seats")
	}
	base := *seedFlag
	if base == 0 {
		base = time.Now().UnixNano()
	}
	runId := uuid.New()
	fmt.Printf("run %v: %d trials, %d seats, naive=%v, seed=%d\n", runId, *trialsFlag, *nFlag, *naiveFlag, base)

	seating := dinner.NewRing
	if *naiveFlag {
		seating = dinner.NaiveRing
	}

	completions, deadlocks := 0, 0
	for trial := 0; trial < *trialsFlag; trial++ {
		ok, err := runTrial(seating(*nFlag), io.Discard, *eatFlag, trialSeed(runId, base, trial), *timeoutFlag)
		if err != nil {
			log.Fatalf("trial %d: %v", trial, err)
		}
		if ok {
			completions++
		} else {
			deadlocks++
			fmt.Printf("trial %d: no completion after %v\n", trial, *timeoutFlag)
		}
	}
	fmt.Printf("%d/%d trials completed, %d deadlocked\n", completions, *trialsFlag, deadlocks)

	// In naive mode deadlocks are the point of the demonstration.
	if !*naiveFlag && deadlocks > 0 {
		os.Exit(1)
	}
}
