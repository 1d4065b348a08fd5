package main

import (
	"fmt"
	"os"

	"evotodo/internal/console"
)

func main() {
	manager := console.NewManager()

	if err := console.RunTUI(manager); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
