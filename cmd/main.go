package main

// docviz entry point: runs the Cobra command tree and maps errors to exit status 1.

import (
	"fmt"
	"os"

	"docviz/cmd/commands"
	logging "docviz/internal/infra/log"
)

func main() {
	err := commands.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
