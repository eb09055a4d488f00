package parser

// Section header lines. A line must match one of these exactly to switch sections.
const (
	playthroughHeader   = "Playthrough:"
	itemLocationsHeader = "All item locations:"
	entrancesHeader     = "Entrances:"
	chartsHeader        = "Charts:"
)

// startingIslandPrefix marks the starting island line. It is honoured in every section.
const startingIslandPrefix = "Starting island:"

// Indentation written by the randomizer. These widths are part of the file
// format and are matched exactly.
const (
	// Playthrough: "Sphere N:" at column 0, location headers at 2, checks at 6.
	playthroughLocationIndent = "  "
	playthroughCheckIndent    = "      "

	// All item locations: location headers at column 0, checks at 4.
	itemLocationsCheckIndent = "    "
)

// sectionHeaders maps each header line to the state it enters.
var sectionHeaders = map[string]State{
	playthroughHeader:   Playthrough,
	itemLocationsHeader: ItemLocations,
	entrancesHeader:     Entrances,
	chartsHeader:        Charts,
}
