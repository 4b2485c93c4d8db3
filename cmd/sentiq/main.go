package main

import (
	"os"

	"github.com/rbarbosa/sentiq/cmd/sentiq/commands"
)

// main is the entry point for the SentiQ CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
