package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"dinersim/pkg/dinner"
	"dinersim/pkg/repl"

	"github.com/google/uuid"
)

func f1(s string, _ *repl.REPLConfig) (string, error) { return "", nil }
func f2(s string, _ *repl.REPLConfig) (string, error) { return "", nil }

func TestRepl(t *testing.T) {
	t.Run("NewRepl", testNewRepl)
	t.Run("Add", testAdd)
	t.Run("HelpString", testHelpString)
	t.Run("DinnerCommands", testDinnerCommands)
	t.Run("Session", testSession)
}

// Tests that a new REPL doesn't contain any commands other than the metacommands.
func testNewRepl(t *testing.T) {
	r := repl.NewRepl()
	for k := range r.GetCommands() {
		t.Fatal("commands should be empty; found key:", k)
	}
	for k := range r.GetHelp() {
		t.Fatal("help should be empty; found key:", k)
	}
}

func testAdd(t *testing.T) {
	r := repl.NewRepl()
	r.AddCommand("c1", f1, "h1")
	r.AddCommand("c2", f2, "h2")
	if len(r.GetCommands()) != 2 || len(r.GetHelp()) != 2 {
		t.Fatal("expected 2 commands with help strings")
	}
	// The help metacommand trigger must not be overridable.
	r.AddCommand(repl.TriggerHelpMetacommand, f1, "nope")
	if len(r.GetCommands()) != 2 {
		t.Fatal("help metacommand was overridden")
	}
}

func testHelpString(t *testing.T) {
	r := repl.NewRepl()
	r.AddCommand("c1", f1, "h1")
	if !strings.Contains(r.HelpString(), "c1: h1") {
		t.Errorf("help string missing entry: %q", r.HelpString())
	}
}

// The dinner REPL must expose the full command surface.
func testDinnerCommands(t *testing.T) {
	r := dinner.DinnerREPL()
	for _, trigger := range []string{"dine", "naive", "check", "roster"} {
		if _, ok := r.GetCommands()[trigger]; !ok {
			t.Errorf("dinner REPL is missing the %q command", trigger)
		}
	}
}

// Drive a scripted session through the dinner REPL.
func testSession(t *testing.T) {
	r := dinner.DinnerREPL()
	input := strings.NewReader("roster\ncheck 5\ncheck 5 naive\nbogus\n")
	var output bytes.Buffer
	r.Run(uuid.New(), "", input, &output)

	got := output.String()
	for _, want := range []string{
		"Michel Foucault: forks (0, 4)",
		"seating of 5 is deadlock-free",
		"seating of 5 admits circular wait",
		repl.ErrorPrependStr + repl.ErrCommandNotFound.Error(),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("session output missing %q in:\n%s", want, got)
		}
	}
}
