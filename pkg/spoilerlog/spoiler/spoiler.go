// Package spoiler defines the in-memory model of a parsed randomizer spoiler log.
package spoiler

// Log is a parsed spoiler log. It mirrors the layout of the text file closely;
// tools that need lookups by check or item should build their own indexes.
type Log struct {
	// StartingIsland is the island named on the "Starting island:" line.
	// Empty if the log has no such line.
	StartingIsland string `json:"starting_island" yaml:"starting_island"`

	// Playthrough holds the spheres in the order they appear, sphere 0 first.
	// Playthrough[3][6] is the seventh check obtained in sphere 3.
	Playthrough [][]Location `json:"playthrough,omitempty" yaml:"playthrough,omitempty"`

	// Locations lists every check from the "All item locations" section.
	Locations []Location `json:"locations,omitempty" yaml:"locations,omitempty"`

	Entrances []Entrance `json:"entrances,omitempty" yaml:"entrances,omitempty"`
	Charts    []Chart    `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Location is a single check and the item placed there.
// Location is the area header the check was listed under.
type Location struct {
	Location string `json:"location" yaml:"location"`
	Check    string `json:"check" yaml:"check"`
	Item     string `json:"item" yaml:"item"`
}

// Entrance maps a randomized entrance to the area it leads to.
type Entrance struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// Chart maps a treasure or triforce chart to the island it points at.
type Chart struct {
	Chart    string `json:"chart" yaml:"chart"`
	Location string `json:"location" yaml:"location"`
}

// CheckCount returns the number of checks across all playthrough spheres.
func (l Log) CheckCount() int {
	n := 0
	for _, sphere := range l.Playthrough {
		n += len(sphere)
	}
	return n
}

// SphereOf returns the index of the first sphere that contains check.
func (l Log) SphereOf(check string) (int, bool) {
	for i, sphere := range l.Playthrough {
		for _, loc := range sphere {
			if loc.Check == check {
				return i, true
			}
		}
	}
	return 0, false
}
