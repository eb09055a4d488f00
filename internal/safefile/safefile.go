// Package safefile opens spoiler log files defensively before they are read.
package safefile

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrTooLarge is returned when a file exceeds the caller's size limit.
	ErrTooLarge = errors.New("file too large")
)

// OpenRegular opens path for reading after checking that it is a regular
// file no larger than maxSize bytes (maxSize <= 0 disables the check).
//
// The path is checked with Lstat so symlinks are rejected, and the opened
// descriptor is checked again in case the file was swapped in between.
// The caller must close the returned file.
func OpenRegular(path string, maxSize int64) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}
	if maxSize > 0 && info.Size() > maxSize {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), maxSize)
	}

	return f, info, nil
}
