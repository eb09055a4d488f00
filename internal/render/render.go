// Package render writes parsed spoiler logs in the CLI's output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"json":   true,
	"jsonl":  true,
	"yaml":   true,
	"pretty": true,
}

// FormatNames returns the valid formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for name := range ValidFormats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Record kinds written by the jsonl format.
const (
	KindStartingIsland = "starting_island"
	KindPlaythrough    = "playthrough"
	KindLocation       = "location"
	KindEntrance       = "entrance"
	KindChart          = "chart"
)

// document is a log together with the file it came from.
type document struct {
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	spoiler.Log `yaml:",inline"`
}

// record is one line of jsonl output. Only the fields that belong to Kind are set.
type record struct {
	Kind        string `json:"kind"`
	Log         string `json:"log,omitempty"`
	Sphere      *int   `json:"sphere,omitempty"`
	Island      string `json:"island,omitempty"`
	Location    string `json:"location,omitempty"`
	Check       string `json:"check,omitempty"`
	Item        string `json:"item,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Chart       string `json:"chart,omitempty"`
}

// Renderer writes logs to out in one format. It is not safe for concurrent use.
type Renderer struct {
	format string
	out    io.Writer
	styles styles
	count  int
}

// New returns a Renderer for format. Unknown formats are an error.
//
// Styles for the pretty format are bound to out, so output that is not a
// terminal carries no escape sequences.
func New(format string, out io.Writer) (*Renderer, error) {
	if !ValidFormats[format] {
		return nil, fmt.Errorf("unknown format: %s (valid: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return &Renderer{
		format: format,
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}, nil
}

// Render writes log. source names the file it was read from and may be empty.
func (r *Renderer) Render(source string, log spoiler.Log) error {
	var err error
	switch r.format {
	case "json":
		err = OutputJSON(source, log, r.out)
	case "jsonl":
		err = OutputJSONL(source, log, r.out)
	case "yaml":
		if r.count > 0 {
			if _, err = io.WriteString(r.out, "---\n"); err != nil {
				return err
			}
		}
		err = OutputYAML(source, log, r.out)
	case "pretty":
		if r.count > 0 {
			if _, err = fmt.Fprintln(r.out); err != nil {
				return err
			}
		}
		err = r.styles.output(source, log, r.out)
	}
	if err != nil {
		return err
	}
	r.count++
	return nil
}

// OutputJSON writes log as a single indented JSON document.
func OutputJSON(source string, log spoiler.Log, out io.Writer) error {
	data, err := json.MarshalIndent(document{Source: source, Log: log}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputJSONL writes log as JSON Lines, one record per entry.
func OutputJSONL(source string, log spoiler.Log, out io.Writer) error {
	enc := json.NewEncoder(out)
	for _, rec := range records(source, log) {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// OutputYAML writes log as a YAML document.
func OutputYAML(source string, log spoiler.Log, out io.Writer) error {
	data, err := yaml.Marshal(document{Source: source, Log: log})
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func records(source string, log spoiler.Log) []record {
	recs := make([]record, 0, 1+log.CheckCount()+len(log.Locations)+len(log.Entrances)+len(log.Charts))

	if log.StartingIsland != "" {
		recs = append(recs, record{Kind: KindStartingIsland, Log: source, Island: log.StartingIsland})
	}
	for i, sphere := range log.Playthrough {
		for _, loc := range sphere {
			recs = append(recs, record{
				Kind:     KindPlaythrough,
				Log:      source,
				Sphere:   &i,
				Location: loc.Location,
				Check:    loc.Check,
				Item:     loc.Item,
			})
		}
	}
	for _, loc := range log.Locations {
		recs = append(recs, record{
			Kind:     KindLocation,
			Log:      source,
			Location: loc.Location,
			Check:    loc.Check,
			Item:     loc.Item,
		})
	}
	for _, e := range log.Entrances {
		recs = append(recs, record{Kind: KindEntrance, Log: source, Source: e.Source, Destination: e.Destination})
	}
	for _, c := range log.Charts {
		recs = append(recs, record{Kind: KindChart, Log: source, Chart: c.Chart, Location: c.Location})
	}
	return recs
}
