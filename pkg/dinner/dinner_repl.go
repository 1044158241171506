package dinner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dinersim/pkg/config"
	"dinersim/pkg/repl"
)

// Dinner REPL.
func DinnerREPL() *repl.REPL {
	r := repl.NewRepl()
	r.AddCommand("dine", func(payload string, replConfig *repl.REPLConfig) (string, error) {
		return HandleDine(payload)
	}, "Run a deadlock-free sitting. usage: dine [<seats>]")

	r.AddCommand("naive", func(payload string, replConfig *repl.REPLConfig) (string, error) {
		return HandleNaive(payload)
	}, "Run a naive (deadlock-prone) sitting under a watchdog. usage: naive <seats> <timeout_ms>")

	r.AddCommand("check", func(payload string, replConfig *repl.REPLConfig) (string, error) {
		return HandleCheck(payload)
	}, "Check a seating's claim graph for circular wait. usage: check <seats> [naive]")

	r.AddCommand("roster", func(payload string, replConfig *repl.REPLConfig) (string, error) {
		return HandleRoster(payload)
	}, "Print the classic seating. usage: roster")

	return r
}

// Handle dine.
func HandleDine(payload string) (output string, err error) {
	fields := strings.Fields(payload)
	n := config.NumSeats
	// Usage: dine [<seats>]
	if len(fields) > 2 {
		return "", errors.New("usage: dine [<seats>]")
	}
	if len(fields) == 2 {
		if n, err = strconv.Atoi(fields[1]); err != nil || n < 2 {
			return "", errors.New("usage: dine [<seats>]; seats must be an integer >= 2")
		}
	}
	var sb strings.Builder
	s, err := NewSitting(NewRing(n), &sb)
	if err != nil {
		return "", err
	}
	if err = s.PreflightCheck(); err != nil {
		return "", err
	}
	if err = s.Run(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Handle naive. The sitting runs under a watchdog because a cyclic
// seating is expected to hang; on timeout the blocked goroutines are
// abandoned along with their table.
func HandleNaive(payload string) (output string, err error) {
	fields := strings.Fields(payload)
	// Usage: naive <seats> <timeout_ms>
	if len(fields) != 3 {
		return "", errors.New("usage: naive <seats> <timeout_ms>")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 2 {
		return "", errors.New("usage: naive <seats> <timeout_ms>; seats must be an integer >= 2")
	}
	ms, err := strconv.Atoi(fields[2])
	if err != nil || ms <= 0 {
		return "", errors.New("usage: naive <seats> <timeout_ms>; timeout must be a positive integer")
	}

	var sb strings.Builder
	s, err := NewSitting(NaiveRing(n), &sb)
	if err != nil {
		return "", err
	}
	done := make(chan error, 1)
	go func() {
		done <- s.Run()
	}()
	select {
	case err = <-done:
		if err != nil {
			return "", err
		}
		return sb.String() + "completed (the scheduler got lucky this time)\n", nil
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return fmt.Sprintf("deadlocked: no completion after %dms", ms), nil
	}
}

// Handle check.
func HandleCheck(payload string) (output string, err error) {
	fields := strings.Fields(payload)
	// Usage: check <seats> [naive]
	if len(fields) != 2 && !(len(fields) == 3 && fields[2] == "naive") {
		return "", errors.New("usage: check <seats> [naive]")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 2 {
		return "", errors.New("usage: check <seats> [naive]; seats must be an integer >= 2")
	}
	seats := NewRing(n)
	if len(fields) == 3 {
		seats = NaiveRing(n)
	}
	if BuildClaimGraph(seats).DetectCycle() {
		return fmt.Sprintf("seating of %d admits circular wait", n), nil
	}
	return fmt.Sprintf("seating of %d is deadlock-free", n), nil
}

// Handle roster.
func HandleRoster(payload string) (output string, err error) {
	var sb strings.Builder
	for _, p := range NewRing(config.NumSeats) {
		left, right := p.Forks()
		sb.WriteString(fmt.Sprintf("%s: forks (%d, %d)\n", p.GetName(), left, right))
	}
	return sb.String(), nil
}
