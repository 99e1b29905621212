package main

import (
	"os"

	"github.com/bianoble/export-tidy/cmd/export-tidy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
