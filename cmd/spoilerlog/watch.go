package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoilerlog/spoilerlog-go/internal/render"
	"github.com/spoilerlog/spoilerlog-go/internal/store"
	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog"
)

var (
	// watch flags
	watchDir     string
	watchPattern string
	watchPoll    time.Duration
	watchReplay  bool
	watchFormat  string
	watchDB      string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a randomizer output directory for new spoiler logs",
	Long: `Watch the randomizer's output directory and print each new spoiler log
once the randomizer has finished writing it.

The directory defaults to the config file's dir, then $SPOILERLOG_DIR,
then the current directory.

Examples:
  # Watch the current directory
  spoilerlog watch

  # Watch a directory and stream checks as JSON Lines
  spoilerlog watch --dir ~/randomizer/output -f jsonl

  # Include logs that are already there
  spoilerlog watch --replay`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "",
		"Randomizer output directory")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "",
		"Glob for spoiler log file names (default \"*Spoiler Log*.txt\")")
	watchCmd.Flags().DurationVar(&watchPoll, "poll", spoilerlog.DefaultPollInterval,
		"How often to check the directory")
	watchCmd.Flags().BoolVar(&watchReplay, "replay", false,
		"Also print logs already in the directory")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", defaultFormat,
		"Output format: json, jsonl, yaml, pretty")
	watchCmd.Flags().StringVar(&watchDB, "db", "",
		"Save parsed logs to this SQLite database")
	_ = watchCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = watchCmd.MarkFlagDirname("dir")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format := flagOrConfig(cmd, "format", watchFormat, cfg.Format)
	dbPath := flagOrConfig(cmd, "db", watchDB, cfg.DB)
	dir := flagOrConfig(cmd, "dir", watchDir, cfg.Dir)
	pattern := flagOrConfig(cmd, "pattern", watchPattern, cfg.Pattern)
	poll := watchPoll
	if !cmd.Flags().Changed("poll") && cfg.PollInterval > 0 {
		poll = cfg.PollInterval
	}

	r, err := render.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	watcher, err := spoilerlog.NewWatcher(
		spoilerlog.WithLogDir(dir),
		spoilerlog.WithPattern(pattern),
		spoilerlog.WithPollInterval(poll),
		spoilerlog.WithReplayExisting(watchReplay),
		spoilerlog.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	st, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	results, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("watching for spoiler logs", "dir", watcher.Dir(), "pattern", pattern, "poll", poll)

	return consume(ctx, results, errs, r, st)
}

// consume prints results until both channels close or ctx is done.
// Watch errors are logged; only output and database failures stop it.
func consume(ctx context.Context, results <-chan spoilerlog.WatchResult, errs <-chan error, r *render.Renderer, st *store.Store) error {
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return nil // Channel closed
			}
			if err := emit(ctx, r, st, res.Path, res.Log); err != nil {
				return err
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
