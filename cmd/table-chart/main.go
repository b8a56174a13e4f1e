package main

import (
	"fmt"
	"os"

	"docviz/cmd/commands"
	logging "docviz/internal/infra/log"
)

func main() {
	err := commands.ExecuteStandalone("table-chart")
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
