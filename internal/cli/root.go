package cli

import (
	"fmt"

	"github.com/nutribattle/nutribattle/internal/cli/commands"
)

var version = "dev" // Will be set during build

// Execute runs the root command
func Execute() error {
	opts := commands.NewOptions(version)
	defer opts.Close()

	if err := commands.NewRootCmd(opts).Execute(); err != nil {
		fmt.Fprintf(opts.Err, "Error: %s\n", commands.Describe(err))
		return err
	}
	return nil
}
