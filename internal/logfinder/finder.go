// Package logfinder locates randomizer output directories and the spoiler logs in them.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// EnvLogDir is the environment variable name for specifying the output directory.
const EnvLogDir = "SPOILERLOG_DIR"

// DefaultPattern matches the spoiler log file names written by the randomizer.
const DefaultPattern = "*Spoiler Log*.txt"

// ErrLogDirNotFound is returned when no usable directory can be resolved.
var ErrLogDirNotFound = errors.New("spoiler log directory not found")

// Candidate is a spoiler log file with its size and modification time,
// captured when the directory was listed.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FindLogDir returns the directory to watch for spoiler logs.
//
// Priority:
//  1. explicit (if non-empty)
//  2. SPOILERLOG_DIR environment variable
//  3. the current working directory
//
// The returned path is absolute with symlinks resolved.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s is not a directory", ErrLogDirNotFound, explicit)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLogDirNotFound, err)
	}
	if resolved := resolveDir(wd); resolved != "" {
		return resolved, nil
	}
	return "", ErrLogDirNotFound
}

// List returns the regular files in dir matching pattern, oldest first.
// Files that disappear or cannot be stat'd while listing are skipped.
func List(dir, pattern string) ([]Candidate, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing spoiler logs: %w", err)
	}

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:    m,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ModTime.Equal(candidates[j].ModTime) {
			return candidates[i].Path < candidates[j].Path
		}
		return candidates[i].ModTime.Before(candidates[j].ModTime)
	})

	return candidates, nil
}

// FindLatest returns the most recently modified spoiler log in dir.
// ok is false if there is none.
func FindLatest(dir, pattern string) (Candidate, bool, error) {
	candidates, err := List(dir, pattern)
	if err != nil || len(candidates) == 0 {
		return Candidate{}, false, err
	}
	return candidates[len(candidates)-1], true, nil
}

// resolveDir returns the absolute, symlink-resolved form of dir, or "" if
// dir is not a directory.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return ""
	}
	return abs
}
