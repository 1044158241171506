package utils

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"dinersim/pkg/dinner"
)

// Upper bound on injected scheduling jitter, in milliseconds.
var MaxDelay int64 = 10

// Jitter returns a small random delay used to shake up goroutine schedules.
func Jitter() time.Duration {
	return time.Duration(rand.Int63n(MaxDelay)+1) * time.Millisecond
}

// RunWithTimeout runs f in its own goroutine and reports whether it
// finished within d. On timeout the goroutine is abandoned, so callers
// should only time out runs that are expected to be stuck for good.
func RunWithTimeout(f func(), d time.Duration) (completed bool) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// CheckDinnerOutput verifies that the captured output holds exactly two
// lines per seat and that each philosopher's "is eating" line strictly
// precedes their own "is done eating" line.
func CheckDinnerOutput(t *testing.T, output string, seats []dinner.Philosopher) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 2*len(seats) {
		t.Errorf("Expected %d output lines for %d seats, but found %d", 2*len(seats), len(seats), len(lines))
	}

	for _, p := range seats {
		eating := indexOf(lines, p.GetName()+" is eating.")
		done := indexOf(lines, p.GetName()+" is done eating.")
		if eating == -1 {
			t.Errorf("Missing eating line for %s", p.GetName())
			continue
		}
		if done == -1 {
			t.Errorf("Missing done-eating line for %s", p.GetName())
			continue
		}
		if eating >= done {
			t.Errorf("%s finished eating (line %d) before starting (line %d)", p.GetName(), done, eating)
		}
	}
}

// indexOf returns the index of the first line equal to want, or -1.
func indexOf(lines []string, want string) int {
	for i, line := range lines {
		if line == want {
			return i
		}
	}
	return -1
}
