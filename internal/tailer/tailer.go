// Package tailer supplies the lines of a spoiler log file using nxadm/tail.
//
// The file is read once from the start; the line sequence ends at EOF.
package tailer

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/nxadm/tail"
)

// Tailer reads the lines of one file.
type Tailer struct {
	t    *tail.Tail
	once sync.Once
	err  error
}

// Open starts reading path. The file must exist.
func Open(path string) (*Tailer, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Tailer{t: t}, nil
}

// All returns the file's lines in order, without line terminators.
// A read error or context cancellation is yielded once as the final element.
// All must be ranged over at most once.
func (t *Tailer) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield("", ctx.Err())
				return
			case line, ok := <-t.t.Lines:
				if !ok {
					// Lines is closed before the tail goroutine finishes, so Wait returns promptly.
					if err := t.t.Wait(); err != nil {
						yield("", err)
					}
					return
				}
				if line.Err != nil {
					yield("", line.Err)
					return
				}
				if !yield(line.Text, nil) {
					return
				}
			}
		}
	}
}

// Stop stops reading and releases the file. Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.once.Do(func() {
		t.t.Kill(nil)
		// The tail goroutine may be blocked sending a line nobody will read.
		go func() {
			for range t.t.Lines {
			}
		}()
		t.err = t.t.Wait()
		t.t.Cleanup()
	})
	return t.err
}
