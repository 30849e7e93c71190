package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/aellingwood/anvil/internal/config"
	"github.com/aellingwood/anvil/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Calendar and pagination markup toolkit",
	Long: "Anvil renders monthly calendar grids and numbered pagination controls as HTML,\n" +
		"from the command line, from templates, or through a live preview server.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "anvil.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config and sets up logging.
// A missing file at the default path yields the default configuration; a
// missing file that was asked for explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")
	verbose, _ := flags.GetBool("verbose")

	cfg := config.Default()
	_, statErr := os.Stat(configPath)
	switch {
	case statErr == nil:
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	case errors.Is(statErr, fs.ErrNotExist) && !flags.Changed("config"):
		configPath = ""
	default:
		return nil, "", fmt.Errorf("loading config: %w", statErr)
	}

	if verbose {
		cfg.WithOverrides(map[string]any{"logLevel": "debug"})
	}
	if err := logging.Setup(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}
