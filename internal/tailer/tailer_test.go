package tailer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func collect(t *testing.T, tl *Tailer, ctx context.Context) ([]string, error) {
	t.Helper()
	var lines []string
	for line, err := range tl.All(ctx) {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func TestTailer_ReadsWholeFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "trailing newline",
			content: "Playthrough:\nSphere 0:\n  Outset Island:\n",
			want:    []string{"Playthrough:", "Sphere 0:", "  Outset Island:"},
		},
		{
			name:    "no trailing newline",
			content: "Charts:\n  Treasure Chart 1: Sector 2",
			want:    []string{"Charts:", "  Treasure Chart 1: Sector 2"},
		},
		{
			name:    "blank lines kept",
			content: "a\n\nb\n",
			want:    []string{"a", "", "b"},
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Spoiler Log.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			tl, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer tl.Stop()

			got, err := collect(t, tl, context.Background())
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("All() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTailer_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Open() expected error for missing file")
	}
}

func TestTailer_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Spoiler Log.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("line\n", 1000)), 0o644); err != nil {
		t.Fatal(err)
	}

	tl, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tl.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context may still race with ready lines; it must end with ctx.Err.
	var lastErr error
	for _, err := range tl.All(ctx) {
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != context.Canceled {
		t.Errorf("All() final error = %v, want context.Canceled", lastErr)
	}
}

func TestTailer_StopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Spoiler Log.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tl, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	// Stop without reading; the drain goroutine must unblock the reader.
	_ = tl.Stop()
	_ = tl.Stop()
}
