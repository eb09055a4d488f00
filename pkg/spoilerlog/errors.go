package spoilerlog

import (
	"errors"
	"fmt"

	"github.com/spoilerlog/spoilerlog-go/internal/logfinder"
	"github.com/spoilerlog/spoilerlog-go/internal/parser"
	"github.com/spoilerlog/spoilerlog-go/internal/safefile"
)

// Sentinel errors.
var (
	// ErrMissingDelimiter means a data line had no ':' separator.
	ErrMissingDelimiter = parser.ErrMissingDelimiter

	// ErrNoSphere means a playthrough check appeared before any "Sphere" line.
	ErrNoSphere = parser.ErrNoSphere

	// ErrNotRegularFile is returned by ParseFile for symlinks, FIFOs and other special files.
	ErrNotRegularFile = safefile.ErrNotRegularFile

	// ErrFileTooLarge is returned by ParseFile for files over MaxLogFileSize.
	ErrFileTooLarge = safefile.ErrTooLarge

	// ErrLogDirNotFound is returned when the watch directory cannot be resolved.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	ErrWatcherClosed   = errors.New("watcher closed")
	ErrAlreadyWatching = errors.New("watch already called")
)

// ParseError reports the line that stopped a parse.
type ParseError struct {
	Line int    // 1-based line number
	Text string // line content as read
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WatchOp identifies the Watcher step that failed.
type WatchOp string

const (
	WatchOpList  WatchOp = "list"
	WatchOpParse WatchOp = "parse"
)

// WatchError is sent on a Watcher's error channel. Watching continues after it.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

func (e *WatchError) Unwrap() error {
	return e.Err
}
