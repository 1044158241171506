// Global dinersim config.
package config

import "time"

// Name of the simulator.
const AppName = "dinersim"

// Prompt printed by REPL.
const Prompt = AppName + "> "

// Number of seats (and forks) in the classic sitting.
const NumSeats = 5

// How long a philosopher holds both forks.
const EatDuration = 1000 * time.Millisecond

// Names for the classic five-seat sitting, in seat order.
var Roster = [NumSeats]string{
	"Judith Butler",
	"Gilles Deleuze",
	"Karl Marx",
	"Emma Goldman",
	"Michel Foucault",
}

// Return prompt if requested, else "".
func GetPrompt(flag bool) string {
	if flag {
		return Prompt
	}
	return ""
}
