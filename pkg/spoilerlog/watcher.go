package spoilerlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spoilerlog/spoilerlog-go/internal/logfinder"
	"github.com/spoilerlog/spoilerlog-go/internal/tailer"
)

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// Watcher monitors a randomizer output directory and parses each new
// spoiler log once the randomizer has finished writing it.
type Watcher struct {
	cfg    watchConfig // immutable after creation
	logDir string
	log    *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// NewWatcher creates a watcher using functional options.
// Validates options and resolves the directory.
// Does NOT start goroutines (cheap to call).
//
// Example:
//
//	watcher, err := spoilerlog.NewWatcher(
//	    spoilerlog.WithLogDir("/path/to/randomizer/output"),
//	    spoilerlog.WithPollInterval(time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, errs, err := watcher.Watch(ctx)
func NewWatcher(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logDir, err := logfinder.FindLogDir(cfg.logDir)
	if err != nil {
		return nil, fmt.Errorf("finding spoiler log directory: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Watcher{
		cfg:    *cfg,
		logDir: logDir,
		log:    log,
	}, nil
}

// Dir returns the resolved directory being watched.
func (w *Watcher) Dir() string {
	return w.logDir
}

// Watch starts watching and returns channels.
// Both channels close when ctx is cancelled or Close is called.
// Watch can only be called once per Watcher instance.
//
// Returns ErrWatcherClosed if the watcher has been closed.
// Returns ErrAlreadyWatching if Watch() has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan WatchResult, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	resultCh := make(chan WatchResult)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, resultCh, errCh)

	return resultCh, errCh, nil
}

// Close stops the watcher and releases resources.
// Safe to call multiple times. Blocks until the goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

// watchState tracks files between polls.
type watchState struct {
	done    map[string]logfinder.Candidate // parsed (or skipped) at this size/mtime
	pending map[string]logfinder.Candidate // seen once, waiting to settle
}

func (w *Watcher) run(ctx context.Context, resultCh chan<- WatchResult, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(resultCh)
	defer close(errCh)

	st := &watchState{
		done:    make(map[string]logfinder.Candidate),
		pending: make(map[string]logfinder.Candidate),
	}

	if !w.cfg.replayExisting {
		existing, err := logfinder.List(w.logDir, w.cfg.pattern)
		if err != nil {
			sendError(ctx, errCh, &WatchError{Op: WatchOpList, Path: w.logDir, Err: err})
		}
		for _, c := range existing {
			st.done[c.Path] = c
		}
		w.log.Debug("skipping existing spoiler logs", "dir", w.logDir, "count", len(existing))
	}

	w.poll(ctx, st, resultCh, errCh)

	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx, st, resultCh, errCh)
		}
	}
}

// poll lists the directory once and parses every file that has settled.
func (w *Watcher) poll(ctx context.Context, st *watchState, resultCh chan<- WatchResult, errCh chan<- error) {
	candidates, err := logfinder.List(w.logDir, w.cfg.pattern)
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpList, Path: w.logDir, Err: err})
		return
	}

	present := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		present[c.Path] = struct{}{}

		if prev, ok := st.done[c.Path]; ok && sameFile(prev, c) {
			continue
		}
		if prev, ok := st.pending[c.Path]; !ok || !sameFile(prev, c) {
			w.log.Debug("spoiler log changed, waiting for it to settle", "path", c.Path, "size", c.Size)
			st.pending[c.Path] = c
			continue
		}

		delete(st.pending, c.Path)
		st.done[c.Path] = c

		log, err := w.parseFile(ctx, c.Path)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpParse, Path: c.Path, Err: err})
			continue
		}
		w.log.Debug("parsed spoiler log", "path", c.Path, "spheres", len(log.Playthrough))

		select {
		case resultCh <- WatchResult{Path: c.Path, Log: log}:
		case <-ctx.Done():
			return
		}
	}

	for path := range st.pending {
		if _, ok := present[path]; !ok {
			delete(st.pending, path)
		}
	}
}

func (w *Watcher) parseFile(ctx context.Context, path string) (SpoilerLog, error) {
	t, err := tailer.Open(path)
	if err != nil {
		return SpoilerLog{}, err
	}
	defer func() { _ = t.Stop() }()

	return parseSeq(t.All(ctx), w.log)
}

func sameFile(a, b logfinder.Candidate) bool {
	return a.Size == b.Size && a.ModTime.Equal(b.ModTime)
}

// sendError sends an error to the error channel.
// Errors are dropped only if the buffer is full.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}

// Watch creates a watcher using functional options and starts watching.
//
// Note: This function does not return the underlying Watcher, so callers cannot
// call Close() to perform synchronous shutdown. The watcher will stop when the
// context is cancelled.
func Watch(ctx context.Context, opts ...WatchOption) (<-chan WatchResult, <-chan error, error) {
	w, err := NewWatcher(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}
