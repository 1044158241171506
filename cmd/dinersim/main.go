package main

import (
	"flag"
	"log"
	"os"

	"dinersim/pkg/config"
	"dinersim/pkg/dinner"

	"github.com/google/uuid"
)

// Run the simulator.
func main() {
	// Set up flags.
	var interactiveFlag = flag.Bool("i", false, "run the interactive REPL instead of the classic sitting")
	var promptFlag = flag.Bool("c", true, "use prompt?")
	flag.Parse()

	// Interactive mode: hand control to the REPL.
	if *interactiveFlag {
		r := dinner.DinnerREPL()
		r.Run(uuid.New(), config.GetPrompt(*promptFlag), nil, nil)
		return
	}

	// Default: run the classic five-seat sitting once and exit.
	s, err := dinner.ClassicSitting(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if err = s.PreflightCheck(); err != nil {
		log.Fatal(err)
	}
	log.Printf("sitting %v: %d philosophers seated", s.ID(), s.Table().Size())
	if err = s.Run(); err != nil {
		log.Fatal(err)
	}
}
