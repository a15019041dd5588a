package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the nutribattle command tree
func NewRootCmd(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "nutribattle",
		Short: "NutriBattle - compare foods and track your nutrition",
		Long: `NutriBattle CLI - Browse the food catalog, compare nutrients and track
what you eat against your daily goals.

Protected commands require 'nutribattle login'. Admin commands require an
admin account.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return CheckRoute(opts, cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.ServerAlias, "server", "s", "", "Backend URL or alias from nutribattle.json")
	root.PersistentFlags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.Out, "nutribattle version %s\n", opts.Version)
		},
	})

	root.AddCommand(NewInitCmd(opts))
	root.AddCommand(NewSelectServerCmd(opts))
	root.AddCommand(NewHomeCmd(opts))
	root.AddCommand(NewFoodsCmd(opts))
	root.AddCommand(NewLoginCmd(opts))
	root.AddCommand(NewSignupCmd(opts))
	root.AddCommand(NewCheckCmd(opts))
	root.AddCommand(NewLogoutCmd(opts))
	root.AddCommand(NewWhoamiCmd(opts))
	root.AddCommand(NewTestAPICmd(opts))
	root.AddCommand(NewDashboardCmd(opts))
	root.AddCommand(NewIntakeCmd(opts))
	root.AddCommand(NewProfileCmd(opts))
	root.AddCommand(NewAdminCmd(opts))

	return root
}
