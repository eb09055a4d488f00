package spoilerlog

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spoilerlog/spoilerlog-go/internal/logfinder"
)

// DefaultMaxLineBytes is the default longest line ParseReader and ParseFile accept.
const DefaultMaxLineBytes = 1024 * 1024

// DefaultPollInterval is how often a Watcher lists its directory by default.
const DefaultPollInterval = 2 * time.Second

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseOption configures Parse, ParseReader and ParseFile.
type ParseOption func(*parseConfig)

type parseConfig struct {
	logger       *slog.Logger
	maxLineBytes int
}

func defaultParseConfig() *parseConfig {
	return &parseConfig{
		logger:       discardLogger,
		maxLineBytes: DefaultMaxLineBytes,
	}
}

func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *parseConfig) validate() error {
	if c.maxLineBytes < 0 {
		return fmt.Errorf("max line bytes must be non-negative, got %d", c.maxLineBytes)
	}
	return nil
}

// WithParseLogger sets a logger for debug output (sections entered, spheres opened).
// If logger is nil, logging is disabled (default behavior).
func WithParseLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}

// WithParseMaxLineBytes sets the longest line ParseReader and ParseFile accept.
// Default is 1MB. 0 uses bufio.MaxScanTokenSize.
func WithParseMaxLineBytes(n int) ParseOption {
	return func(c *parseConfig) {
		c.maxLineBytes = n
	}
}

// WatchOption configures a Watcher using the functional options pattern.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logDir         string
	pattern        string
	pollInterval   time.Duration
	replayExisting bool
	logger         *slog.Logger
}

func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pattern:      logfinder.DefaultPattern,
		pollInterval: DefaultPollInterval,
	}
}

func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *watchConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.pattern == "" {
		return fmt.Errorf("file pattern must not be empty")
	}
	return nil
}

// WithLogDir sets the directory the randomizer writes spoiler logs to.
// If not set, SPOILERLOG_DIR is used, then the current working directory.
func WithLogDir(dir string) WatchOption {
	return func(c *watchConfig) {
		c.logDir = dir
	}
}

// WithPattern sets the glob matched against file names in the directory.
// Default: "*Spoiler Log*.txt".
func WithPattern(pattern string) WatchOption {
	return func(c *watchConfig) {
		c.pattern = pattern
	}
}

// WithPollInterval sets how often the directory is listed.
// A file is parsed once it is unchanged across two consecutive polls.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithReplayExisting also reports spoiler logs already present when watching starts.
// Default: false (only logs written after Watch is called).
func WithReplayExisting(replay bool) WatchOption {
	return func(c *watchConfig) {
		c.replayExisting = replay
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}
