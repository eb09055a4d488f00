package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spoilerlog/spoilerlog-go/internal/logfinder"
	"github.com/spoilerlog/spoilerlog-go/internal/render"
	"github.com/spoilerlog/spoilerlog-go/internal/store"
	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog"
)

var (
	// parse flags
	parseFormat string
	parseDB     string
	parseDir    string
)

var errNoSpoilerLog = errors.New("no spoiler log found")

var parseCmd = &cobra.Command{
	Use:   "parse [FILE...]",
	Short: "Parse spoiler log files",
	Long: `Parse one or more spoiler log files and print them.

Use "-" to read a log from standard input. Without arguments the newest
spoiler log in the output directory (--dir, the config file's dir,
$SPOILERLOG_DIR, then the current directory) is parsed.

Examples:
  # Human-readable summary
  spoilerlog parse "Seed Spoiler Log.txt"

  # One JSON record per check, for jq
  spoilerlog parse -f jsonl "Seed Spoiler Log.txt" | jq 'select(.kind == "playthrough")'

  # Also save every log to a SQLite database
  spoilerlog parse --db spoilers.db *.txt

  # Newest log the randomizer wrote
  spoilerlog parse --dir ~/randomizer/output`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", defaultFormat,
		"Output format: json, jsonl, yaml, pretty")
	parseCmd.Flags().StringVar(&parseDB, "db", "",
		"Save parsed logs to this SQLite database")
	parseCmd.Flags().StringVarP(&parseDir, "dir", "d", "",
		"Output directory searched when no FILE is given")
	_ = parseCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = parseCmd.MarkFlagFilename("db", "db", "sqlite")
	_ = parseCmd.MarkFlagDirname("dir")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format := flagOrConfig(cmd, "format", parseFormat, cfg.Format)
	dbPath := flagOrConfig(cmd, "db", parseDB, cfg.DB)

	r, err := render.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	st, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	if len(args) == 0 {
		latest, err := latestLog(flagOrConfig(cmd, "dir", parseDir, cfg.Dir), cfg.Pattern)
		if err != nil {
			return err
		}
		args = []string{latest}
	}

	for _, path := range args {
		log, err := parseInput(ctx, cmd, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := emit(ctx, r, st, path, log); err != nil {
			return err
		}
	}
	return nil
}

// latestLog returns the newest file matching pattern in the resolved output directory.
func latestLog(dir, pattern string) (string, error) {
	resolved, err := logfinder.FindLogDir(dir)
	if err != nil {
		return "", err
	}
	c, ok, err := logfinder.FindLatest(resolved, pattern)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w in %s", errNoSpoilerLog, resolved)
	}
	logger.Debug("using newest spoiler log", "path", c.Path, "modified", c.ModTime)
	return c.Path, nil
}

// parseInput parses the file at path, or standard input for "-".
func parseInput(ctx context.Context, cmd *cobra.Command, path string) (spoilerlog.SpoilerLog, error) {
	if path == "-" {
		return spoilerlog.ParseReader(ctx, cmd.InOrStdin(), spoilerlog.WithParseLogger(logger))
	}
	return spoilerlog.ParseFile(ctx, path, spoilerlog.WithParseLogger(logger))
}

// emit renders log and, when st is set, saves it.
func emit(ctx context.Context, r *render.Renderer, st *store.Store, path string, log spoilerlog.SpoilerLog) error {
	if err := r.Render(path, log); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if st == nil {
		return nil
	}
	id, err := st.Save(ctx, filepath.Base(path), log)
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	logger.Info("saved spoiler log", "path", path, "id", id)
	return nil
}

// openStore opens the database at path. An empty path means no database.
func openStore(ctx context.Context, path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	return store.Open(ctx, path, store.WithLogger(logger))
}

// flagOrConfig returns the flag value if it was set on the command line,
// the config value if not empty, and the flag default otherwise.
func flagOrConfig(cmd *cobra.Command, name, flagValue, configValue string) string {
	if cmd.Flags().Changed(name) || configValue == "" {
		return flagValue
	}
	return configValue
}
