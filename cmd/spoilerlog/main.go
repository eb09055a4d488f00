// Command spoilerlog parses Wind Waker randomizer spoiler logs.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// root flags
	verbose    bool
	configPath string

	// set by PersistentPreRunE
	cfg    cliConfig
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spoilerlog",
	Short: "Parse Wind Waker randomizer spoiler logs",
	Long: `Parse Wind Waker randomizer spoiler logs into structured data.

Defaults for every command can be set in ~/.config/spoilerlog/config.toml:

  format = "json"
  dir = "~/randomizer/output"
  pattern = "*Spoiler Log*.txt"
  poll_interval = "2s"
  db = "~/.local/share/spoilerlog/spoilers.db"

Command line flags override the config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		c, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		logger.Debug("loaded config", "format", cfg.Format, "dir", cfg.Dir, "pattern", cfg.Pattern,
			"poll_interval", cfg.PollInterval, "db", cfg.DB)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default "+defaultConfigPath+")")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
