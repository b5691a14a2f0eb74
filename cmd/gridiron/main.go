package main

import (
	"os"

	"github.com/pcroft/gridiron/cmd/gridiron/commands"
)

// main is the entry point for the gridiron CLI:
// go run ./cmd/gridiron [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
