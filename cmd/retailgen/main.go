package main

import (
	"os"

	"github.com/aromalab/retailgen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
