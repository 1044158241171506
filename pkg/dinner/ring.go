package dinner

import (
	"fmt"

	"dinersim/pkg/config"
)

// seatName returns the roster name for seat i, falling back to a
// generated name for rings larger than the classic five.
func seatName(i int) string {
	if i < len(config.Roster) {
		return config.Roster[i]
	}
	return fmt.Sprintf("philosopher-%d", i)
}

// NewRing seats n philosophers around the table so that seat i needs
// forks (i, i+1 mod n), except the last seat, which takes its pair in
// reversed order: (0, n-1) instead of (n-1, 0). That one left-handed
// seat is what keeps the ring deadlock-free: the first-claim graph of
// the seating is acyclic (see ClaimGraph), so no circular wait can
// form no matter how the scheduler interleaves the diners.
func NewRing(n int) []Philosopher {
	seats := make([]Philosopher, 0, n)
	for i := 0; i < n-1; i++ {
		seats = append(seats, NewPhilosopher(seatName(i), i, (i+1)%n))
	}
	seats = append(seats, NewPhilosopher(seatName(n-1), 0, n-1))
	return seats
}

// NaiveRing seats all n philosophers with the uniform (i, i+1 mod n)
// assignment. Every seat grabs its lower neighbor first, which admits
// the classic circular wait: all n can hold one fork and block forever
// on the next. Exists to demonstrate the bug NewRing avoids.
func NaiveRing(n int) []Philosopher {
	seats := make([]Philosopher, 0, n)
	for i := 0; i < n; i++ {
		seats = append(seats, NewPhilosopher(seatName(i), i, (i+1)%n))
	}
	return seats
}
