package main

import (
	"fmt"
	"os"

	"kanban-mc/cmd/kanban-mc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
