package main

// Main entry point of the application
// Initializes and executes Cobra commands
// Prints the error and exits with status 1 on failure

import (
	"fmt"
	"os"

	"activity-charts/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
