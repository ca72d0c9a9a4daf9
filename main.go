package main

import (
	"os"

	"github.com/maxkimambo/sysgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Execute already printed the error
		os.Exit(1)
	}
}
