package spoilerlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/spoilerlog/spoilerlog-go/internal/parser"
	"github.com/spoilerlog/spoilerlog-go/internal/safefile"
)

// MaxLogFileSize is the largest file ParseFile will read (16MB).
// Spoiler logs are normally well under 1MB.
const MaxLogFileSize = 16 * 1024 * 1024

// Parse builds a SpoilerLog from lines, read once from first to last.
// Lines must not include their newline; a trailing '\r' is ignored.
//
// An empty sequence yields an empty SpoilerLog and a nil error.
// A line that breaks the log grammar stops the parse with a *ParseError
// wrapping ErrMissingDelimiter or ErrNoSphere; no partial log is returned.
//
// Example:
//
//	log, err := spoilerlog.Parse(slices.Values(lines))
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Starting island:", log.StartingIsland)
func Parse(lines iter.Seq[string], opts ...ParseOption) (SpoilerLog, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return SpoilerLog{}, fmt.Errorf("invalid options: %w", err)
	}
	return parseSeq(func(yield func(string, error) bool) {
		for line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}, cfg.logger)
}

// ParseLines is Parse over a slice.
func ParseLines(lines []string, opts ...ParseOption) (SpoilerLog, error) {
	return Parse(slices.Values(lines), opts...)
}

// ParseReader parses a spoiler log read from r.
// Returns ctx.Err() if ctx is cancelled before r is exhausted, and a wrapped
// bufio error if r fails or a line exceeds the configured maximum.
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) (SpoilerLog, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return SpoilerLog{}, fmt.Errorf("invalid options: %w", err)
	}
	return parseSeq(scanLines(ctx, r, cfg.maxLineBytes), cfg.logger)
}

// ParseFile parses the spoiler log at path.
//
// Unlike Parse, a missing or unreadable file is an error: callers that want
// to treat it as an empty log can check errors.Is(err, fs.ErrNotExist).
// Symlinks and special files are rejected with ErrNotRegularFile, files over
// MaxLogFileSize with ErrFileTooLarge.
func ParseFile(ctx context.Context, path string, opts ...ParseOption) (SpoilerLog, error) {
	f, _, err := safefile.OpenRegular(path, MaxLogFileSize)
	if err != nil {
		return SpoilerLog{}, fmt.Errorf("opening spoiler log: %w", err)
	}
	defer f.Close()

	return ParseReader(ctx, f, opts...)
}

// scanLines yields the lines of r. The final element carries the first
// error encountered, if any.
func scanLines(ctx context.Context, r io.Reader, maxLineBytes int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		if maxLineBytes > 0 {
			sc.Buffer(make([]byte, 0, min(4096, maxLineBytes)), maxLineBytes)
		}
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(sc.Text(), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", fmt.Errorf("reading spoiler log: %w", err))
		}
	}
}

// parseSeq drives a fresh parser over lines. Each call owns its parser, so
// concurrent calls never share state.
func parseSeq(lines iter.Seq2[string, error], logger *slog.Logger) (SpoilerLog, error) {
	p := parser.New()
	n := 0
	for line, err := range lines {
		if err != nil {
			return SpoilerLog{}, err
		}
		n++

		state, spheres := p.State(), len(p.Log().Playthrough)
		if err := p.Feed(line); err != nil {
			return SpoilerLog{}, &ParseError{Line: n, Text: line, Err: err}
		}

		if s := p.State(); s != state {
			logger.Debug("section entered", "section", s.String(), "line", n)
		}
		if len(p.Log().Playthrough) > spheres {
			logger.Debug("sphere opened", "sphere", spheres, "line", n)
		}
	}

	log := p.Log()
	logger.Debug("parsed spoiler log",
		"lines", n,
		"spheres", len(log.Playthrough),
		"checks", log.CheckCount(),
		"locations", len(log.Locations),
		"entrances", len(log.Entrances),
		"charts", len(log.Charts),
	)
	return log, nil
}
