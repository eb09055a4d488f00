package spoilerlog

import "github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"

// SpoilerLog is a parsed spoiler log. See [spoiler.Log].
type SpoilerLog = spoiler.Log

// Location is a check, the item placed there and the area it belongs to.
type Location = spoiler.Location

// Entrance is a randomized entrance mapping.
type Entrance = spoiler.Entrance

// Chart is a randomized chart mapping.
type Chart = spoiler.Chart

// WatchResult is a spoiler log discovered and parsed by a Watcher.
type WatchResult struct {
	// Path is the file the log was read from.
	Path string
	Log  SpoilerLog
}
