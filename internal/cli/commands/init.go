package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	appconfig "github.com/nutribattle/nutribattle/internal/config"
	"github.com/nutribattle/nutribattle/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd(opts *Options) *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "init [api-url]",
		Short: "Add a NutriBattle backend to ./nutribattle.json",
		Long: `Add a NutriBattle backend to ./nutribattle.json, creating the file if needed.

The URL is the API base endpoint, e.g. https://nutri.example.com/api.
Without an argument the local development backend is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL := appconfig.DefaultAPIURL
			if len(args) > 0 {
				apiURL = args[0]
			}
			return runInit(opts, apiURL, alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Name for this backend (defaults to local, then server-N)")

	return cmd
}

func runInit(opts *Options, apiURL, alias string) error {
	apiURL = strings.TrimRight(apiURL, "/")
	if err := config.ValidateServerURL(apiURL); err != nil {
		return err
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(opts.Out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{Servers: []config.Server{}}
		isNewConfig = true
	}

	for _, server := range cfg.Servers {
		if server.URL == apiURL {
			fmt.Fprintf(opts.Out, "Backend %s already exists in %s\n", apiURL, config.ConfigFileName)
			return nil
		}
	}

	if alias == "" {
		if len(cfg.Servers) == 0 {
			alias = "local"
		} else {
			alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}

	if err := cfg.AddServer(config.Server{URL: apiURL, Alias: alias}); err != nil {
		return err
	}
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(opts.Out, "✓ Created ./%s with backend %s (%s)\n", config.ConfigFileName, apiURL, alias)
	} else {
		fmt.Fprintf(opts.Out, "✓ Added backend %s (%s) to ./%s\n", apiURL, alias, config.ConfigFileName)
	}

	fmt.Fprintln(opts.Out, "\nNext steps:")
	fmt.Fprintln(opts.Out, "  1. Run 'nutribattle test-api' to check the connection")
	fmt.Fprintln(opts.Out, "  2. Run 'nutribattle login' to authenticate")

	return nil
}
