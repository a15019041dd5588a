package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	appconfig "github.com/nutribattle/nutribattle/internal/config"
	"github.com/nutribattle/nutribattle/internal/cli/config"
	"github.com/nutribattle/nutribattle/internal/cli/serverselect"
	"github.com/nutribattle/nutribattle/internal/cli/userconfig"
)

// selectPrompt is replaced in tests
var selectPrompt = serverselect.PromptServerSelection

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [url-or-alias]",
		Short: "Select the backend to use for commands",
		Long: `Select the backend to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ nutribattle select-server                                # Interactive selection
  $ nutribattle select-server https://nutri.example.com/api  # Select by URL
  $ nutribattle select-server prod                           # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runSelectServer(opts, urlOrAlias)
		},
	}

	return cmd
}

func runSelectServer(opts *Options, urlOrAlias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'nutribattle init' to create a configuration file", err)
	}

	var server *config.Server
	if urlOrAlias != "" {
		server, err = cfg.GetServerByURLOrAlias(urlOrAlias)
	} else {
		server, err = selectPrompt(cfg)
	}
	if err != nil {
		return err
	}

	env, err := appconfig.Load()
	if err != nil {
		return err
	}
	paths := userconfig.Paths{Home: env.Client.Home}
	if err := paths.SetSelectedServer(server.URL); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	fmt.Fprintf(opts.Out, "Selected backend: %s\n", server.Label())
	return nil
}
