package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const sampleLog = `Starting island: Windfall Island
Playthrough:
Sphere 0:
  Dragon Roost Cavern - Gohma Heart Container:
      Dragon Roost Cavern - Gohma Heart Container: Wind Waker
All item locations:
Outset Island:
    Outset Island - Savage Labyrinth - Floor 30: Hero's Charm
Entrances:
  Dragon Roost Cavern: Forest Haven
Charts:
  Triangle Island Chart: Mother and Child Isles
`

// execute runs the root command with args and a fresh HOME, resetting every
// flag so tests do not leak values into each other.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mkdirAll(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}
