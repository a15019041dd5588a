package main

import (
	"os"

	"github.com/nutribattle/nutribattle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
