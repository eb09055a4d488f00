package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spoilers.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sampleLog() spoiler.Log {
	return spoiler.Log{
		StartingIsland: "Windfall Island",
		Playthrough: [][]spoiler.Location{
			{
				{Location: "Windfall Island", Check: "Windfall Island - Jail - Tingle - First Gift", Item: "Deku Leaf"},
				{Location: "Windfall Island", Check: "Windfall Island - Lenzo's House - Become Lenzo's Assistant", Item: "Grappling Hook"},
			},
			{},
			{
				{Location: "Dragon Roost Cavern - Gohma Heart Container", Check: "Dragon Roost Cavern - Gohma Heart Container", Item: "Wind Waker"},
			},
			{},
		},
		Locations: []spoiler.Location{
			{Location: "Outset Island", Check: "Outset Island - Savage Labyrinth - Floor 30", Item: "Hero's Charm"},
			{Location: "Outset Island", Check: "Outset Island - Great Fairy", Item: "Progressive Bow"},
		},
		Entrances: []spoiler.Entrance{
			{Source: "Dungeon Entrance On Dragon Roost Island", Destination: "Forbidden Woods"},
			{Source: "Dungeon Entrance In Forest Haven Sector", Destination: "Dragon Roost Cavern"},
		},
		Charts: []spoiler.Chart{
			{Chart: "Treasure Chart 25", Location: "Sector 1"},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "Seed Spoiler Log.txt", sampleLog())
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleLog(), got)
}

func TestSaveLoad_EmptyLog(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "empty", spoiler.Log{})
	require.NoError(t, err)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, spoiler.Log{}, got)
}

func TestLoad_NotFound(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Load(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "id 42")
}

func TestList_NewestFirst(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	first, err := s.Save(ctx, "first.txt", sampleLog())
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	second, err := s.Save(ctx, "second.txt", spoiler.Log{StartingIsland: "Outset Island"})
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second, entries[0].ID)
	assert.Equal(t, "second.txt", entries[0].Name)
	assert.Equal(t, "Outset Island", entries[0].StartingIsland)
	assert.Equal(t, 0, entries[0].Spheres)
	assert.True(t, entries[0].CreatedAt.Equal(clock))

	assert.Equal(t, first, entries[1].ID)
	assert.Equal(t, 4, entries[1].Spheres)
}

func TestList_Empty(t *testing.T) {
	s, _ := openTestStore(t)

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_MigrationsRecorded(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	version, err := s.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].ID, version)

	id, err := s.Save(ctx, "kept.txt", sampleLog())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening runs no migration twice and keeps existing data.
	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	var applied int
	require.NoError(t, reopened.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&applied))
	assert.Equal(t, len(migrations), applied)

	got, err := reopened.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleLog(), got)
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	s, _ := openTestStore(t)

	var enabled int
	require.NoError(t, s.db.QueryRowContext(context.Background(), `PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO charts (log_id, seq, chart, location) VALUES (999, 0, 'x', 'y')`)
	assert.Error(t, err, "orphan rows must be rejected")
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "spoilers.db"))
	assert.Error(t, err)
}

func TestOpen_PathWithURIDelimiters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "seeds?v=2#race")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "spoilers.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	id, err := s.Save(context.Background(), "Spoiler Log.txt", sampleLog())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err, "database must be created at the literal path")
	assert.True(t, info.Mode().IsRegular())

	got, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, sampleLog(), got)
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"file:%2Ftmp%2Fa%3Fb%23c.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		dsn("/tmp/a?b#c.db"))
}

func TestSave_Cancelled(t *testing.T) {
	s, _ := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "cancelled.txt", sampleLog())
	require.Error(t, err)

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when the transaction fails")
}
