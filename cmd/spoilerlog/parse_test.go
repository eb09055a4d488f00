package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCmd_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Seed Spoiler Log.txt", sampleLog)

	stdout, _, err := execute(t, "", "parse", "-f", "json", path)
	require.NoError(t, err)

	var got struct {
		Source string `json:"source"`
		spoilerlog.SpoilerLog
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, path, got.Source)
	assert.Equal(t, "Windfall Island", got.StartingIsland)
	require.Len(t, got.Playthrough, 1)
	assert.Equal(t, "Wind Waker", got.Playthrough[0][0].Item)
	assert.Equal(t, "Outset Island", got.Locations[0].Location)
}

func TestParseCmd_DefaultPretty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Seed Spoiler Log.txt", sampleLog)

	stdout, _, err := execute(t, "", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Starting island: Windfall Island")
	assert.Contains(t, stdout, "Dragon Roost Cavern -> Forest Haven")
}

func TestParseCmd_Latest(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "Old Spoiler Log.txt", "Starting island: Outset Island\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))
	writeFile(t, dir, "New Spoiler Log.txt", sampleLog)
	writeFile(t, dir, "notes.txt", "Starting island: Star Island\n")

	stdout, _, err := execute(t, "", "parse", "-f", "jsonl", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"island":"Windfall Island"`)
	assert.Contains(t, stdout, "New Spoiler Log.txt")
	assert.NotContains(t, stdout, "Old Spoiler Log.txt")
}

func TestParseCmd_Stdin(t *testing.T) {
	stdout, _, err := execute(t, sampleLog, "parse", "--format", "jsonl", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], `"kind":"starting_island"`)
}

func TestParseCmd_ConfigFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Seed Spoiler Log.txt", sampleLog)
	config := writeFile(t, dir, "config.toml", "format = \"yaml\"\n")

	stdout, _, err := execute(t, "", "--config", config, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "starting_island: Windfall Island")

	// An explicit flag wins over the config file.
	stdout, _, err = execute(t, "", "--config", config, "parse", "-f", "jsonl", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"kind":"chart"`)
}

func TestParseCmd_SavesToDatabase(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "First Spoiler Log.txt", sampleLog)
	second := writeFile(t, dir, "Second Spoiler Log.txt", "Starting island: Outset Island\n")
	db := filepath.Join(dir, "spoilers.db")

	_, _, err := execute(t, "", "parse", "--db", db, "-f", "json", first, second)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "list", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STARTING ISLAND")
	assert.Contains(t, lines[1], "Second Spoiler Log.txt")
	assert.Contains(t, lines[2], "First Spoiler Log.txt")

	stdout, _, err = execute(t, "", "show", "--db", db, "-f", "jsonl", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"item":"Wind Waker"`)
	assert.NotContains(t, stdout, `"log":`)
}

func TestParseCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "Broken Spoiler Log.txt", "Charts:\n  Treasure Chart 25\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no logs in dir", []string{"parse", "--dir", t.TempDir()}, "no spoiler log found"},
		{"missing dir", []string{"parse", "--dir", filepath.Join(dir, "nope")}, "spoiler log directory not found"},
		{"unknown format", []string{"parse", "-f", "xml", broken}, "unknown format: xml"},
		{"missing file", []string{"parse", filepath.Join(dir, "missing.txt")}, "no such file"},
		{"malformed log", []string{"parse", broken}, "line 2: missing ':' delimiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestShowCmd_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "spoilers.db")

	_, _, err := execute(t, "", "show", "1")
	assert.ErrorIs(t, err, errNoDatabase)

	_, _, err = execute(t, "", "show", "--db", db, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid id "abc"`)

	_, _, err = execute(t, "", "show", "--db", db, "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spoiler log not found")

	_, _, err = execute(t, "", "list")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestCompletionCmd(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := execute(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "spoilerlog")
		})
	}

	_, _, err := execute(t, "", "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompleteFormats(t *testing.T) {
	got, _ := completeFormats(parseCmd, nil, "")
	assert.Equal(t, []string{"json", "jsonl", "pretty", "yaml"}, got)
}
