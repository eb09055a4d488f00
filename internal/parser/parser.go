// Package parser implements the line-by-line state machine that turns a
// randomizer spoiler log into a spoiler.Log.
package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"
)

// Sentinel errors. Both are fatal: the parse cannot continue past them.
var (
	// ErrMissingDelimiter is returned for a data line without a colon.
	ErrMissingDelimiter = errors.New("missing ':' delimiter")

	// ErrNoSphere is returned for a playthrough check listed before any sphere line.
	ErrNoSphere = errors.New("check listed before first sphere")
)

// State is the section of the log the parser is currently in.
type State int

const (
	// Header is the preamble before the first section header.
	Header State = iota
	Playthrough
	ItemLocations
	Entrances
	Charts
)

func (s State) String() string {
	switch s {
	case Header:
		return "header"
	case Playthrough:
		return "playthrough"
	case ItemLocations:
		return "item_locations"
	case Entrances:
		return "entrances"
	case Charts:
		return "charts"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Transition reports whether line is a section header and, if so, which
// state it enters. Only exact matches count.
func Transition(line string) (State, bool) {
	s, ok := sectionHeaders[line]
	return s, ok
}

// Parser holds the context of a single parse. It is not safe for concurrent
// use; create one Parser per log.
type Parser struct {
	state State
	loc   string // most recent location header
	log   spoiler.Log
}

// New returns a Parser in the Header state with an empty log.
func New() *Parser {
	return &Parser{}
}

// State returns the section the parser is in.
func (p *Parser) State() State {
	return p.state
}

// Log returns a copy of the log built so far. Later calls to Feed do not
// change a log already returned.
func (p *Parser) Log() spoiler.Log {
	out := p.log
	if p.log.Playthrough != nil {
		out.Playthrough = make([][]spoiler.Location, len(p.log.Playthrough))
		for i, sphere := range p.log.Playthrough {
			out.Playthrough[i] = slices.Clone(sphere)
		}
	}
	out.Locations = slices.Clone(p.log.Locations)
	out.Entrances = slices.Clone(p.log.Entrances)
	out.Charts = slices.Clone(p.log.Charts)
	return out
}

// Feed processes one line (without its newline). A single trailing '\r' is
// removed first, so "Playthrough:\r" is a section header.
//
// Returns ErrMissingDelimiter or ErrNoSphere (wrapped) for lines that break
// the grammar. After an error the Parser must not be fed further.
func (p *Parser) Feed(line string) error {
	// Trim trailing CR for Windows CRLF compatibility
	line = strings.TrimSuffix(line, "\r")

	// Header lines are delimiters only
	if next, ok := Transition(line); ok {
		p.state = next
		return nil
	}

	if line == "" {
		return nil
	}

	if rest, ok := strings.CutPrefix(line, startingIslandPrefix); ok {
		p.log.StartingIsland = strings.TrimSpace(rest)
		return nil
	}

	switch p.state {
	case Playthrough:
		return p.feedPlaythrough(line)
	case ItemLocations:
		return p.feedItemLocations(line)
	case Entrances:
		source, destination, err := splitPair(line)
		if err != nil {
			return err
		}
		p.log.Entrances = append(p.log.Entrances, spoiler.Entrance{
			Source:      source,
			Destination: destination,
		})
	case Charts:
		chart, location, err := splitPair(line)
		if err != nil {
			return err
		}
		p.log.Charts = append(p.log.Charts, spoiler.Chart{
			Chart:    chart,
			Location: location,
		})
	}
	return nil
}

func (p *Parser) feedPlaythrough(line string) error {
	switch {
	case strings.HasPrefix(line, playthroughCheckIndent):
		if len(p.log.Playthrough) == 0 {
			return fmt.Errorf("%w: %q", ErrNoSphere, line)
		}
		check, item, err := splitPair(line)
		if err != nil {
			return err
		}
		last := len(p.log.Playthrough) - 1
		p.log.Playthrough[last] = append(p.log.Playthrough[last], spoiler.Location{
			Location: p.loc,
			Check:    check,
			Item:     item,
		})
	case strings.HasPrefix(line, playthroughLocationIndent):
		p.loc = dropTerminator(line[len(playthroughLocationIndent):])
	default:
		// Sphere labels carry no data; every sphere line starts a new sphere.
		p.log.Playthrough = append(p.log.Playthrough, []spoiler.Location{})
	}
	return nil
}

func (p *Parser) feedItemLocations(line string) error {
	if !strings.HasPrefix(line, itemLocationsCheckIndent) {
		// Headers here are written at column 0 or 2; neither indent is kept.
		p.loc = dropTerminator(strings.TrimLeft(line, " "))
		return nil
	}
	check, item, err := splitPair(line)
	if err != nil {
		return err
	}
	p.log.Locations = append(p.log.Locations, spoiler.Location{
		Location: p.loc,
		Check:    check,
		Item:     item,
	})
	return nil
}

// splitPair splits a data line at its first colon and trims both halves.
// Any further colons stay in the right half.
func splitPair(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrMissingDelimiter, line)
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

// dropTerminator removes the final character of a location header.
func dropTerminator(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
