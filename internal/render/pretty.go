package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	area    lipgloss.Style
	item    lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68")),
		area:    r.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		item:    r.NewStyle().Bold(true),
		faint:   r.NewStyle().Faint(true),
	}
}

// output writes a human-readable summary of log.
func (s styles) output(source string, log spoiler.Log, out io.Writer) error {
	var b strings.Builder

	if source != "" {
		fmt.Fprintln(&b, s.title.Render(source))
	}
	island := log.StartingIsland
	if island == "" {
		island = s.faint.Render("(unknown)")
	}
	fmt.Fprintf(&b, "Starting island: %s\n", island)

	if len(log.Playthrough) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n",
			s.section.Render("Playthrough"),
			s.faint.Render(fmt.Sprintf("(%d spheres, %d checks)", len(log.Playthrough), log.CheckCount())))
		for i, sphere := range log.Playthrough {
			fmt.Fprintf(&b, "  Sphere %d\n", i)
			if len(sphere) == 0 {
				fmt.Fprintf(&b, "    %s\n", s.faint.Render("(empty)"))
			}
			for _, loc := range sphere {
				fmt.Fprintf(&b, "    %s: %s %s\n", loc.Check, s.item.Render(loc.Item), s.area.Render("["+loc.Location+"]"))
			}
		}
	}

	if len(log.Locations) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", s.section.Render("Item locations"),
			s.faint.Render(fmt.Sprintf("(%d checks)", len(log.Locations))))
		area := ""
		for i, loc := range log.Locations {
			if i == 0 || loc.Location != area {
				area = loc.Location
				fmt.Fprintf(&b, "  %s\n", s.area.Render(area))
			}
			fmt.Fprintf(&b, "    %s: %s\n", loc.Check, s.item.Render(loc.Item))
		}
	}

	if len(log.Entrances) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.section.Render("Entrances"))
		for _, e := range log.Entrances {
			fmt.Fprintf(&b, "  %s -> %s\n", e.Source, e.Destination)
		}
	}

	if len(log.Charts) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.section.Render("Charts"))
		for _, c := range log.Charts {
			fmt.Fprintf(&b, "  %s -> %s\n", c.Chart, c.Location)
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}
