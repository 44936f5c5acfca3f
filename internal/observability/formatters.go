// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/nearby"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out      io.Writer
	maxItems int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, maxItems: maxItemsToShow}
}

// WithMaxItems sets how many list entries are shown before "... and N more".
// Values below one show everything.
func (p *Printer) WithMaxItems(n int) *Printer {
	p.maxItems = n
	return p
}

func (p *Printer) limit(total int) int {
	if p.maxItems < 1 {
		return total
	}
	return min(total, p.maxItems)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatCoordinate(c geo.Coordinate) string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// writeHeader writes the summary lines shared by both map views.
func writeHeader[T any](sb *strings.Builder, res nearby.Result[T], catalog *locations.Catalog) {
	fmt.Fprintf(sb, "Ref:   %s\n", formatCoordinate(res.Reference))
	if catalog != nil {
		fmt.Fprintf(sb, "Place: %s\n", catalog.DisplayName(&res.Reference.Latitude, &res.Reference.Longitude))
	}

	path := make([]string, 0, len(res.Path))
	for _, s := range res.Path {
		path = append(path, s.String())
	}
	fmt.Fprintf(sb, "Path:  %s\n", strings.Join(path, "→"))

	if res.Synthetic {
		sb.WriteString("Data:  sample locations\n")
		for i, line := range wrap(res.Advisory, boxWidth-4-7) {
			label := "Note:  "
			if i > 0 {
				label = "       "
			}
			sb.WriteString(label + line + "\n")
		}
	} else {
		fmt.Fprintf(sb, "Data:  %d placed, %d without location\n", len(res.Items), res.Unlocated)
	}
	sb.WriteString("\n")
}

// wrap splits text into lines of at most width runes at word boundaries.
func wrap(text string, width int) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// writeItems lists up to the printer's limit of items, labelled by label.
func writeItems[T any](p *Printer, sb *strings.Builder, items []nearby.Placed[T], label func(T) string) {
	if len(items) == 0 {
		sb.WriteString("Nothing to show")
		return
	}

	count := p.limit(len(items))
	for i := 0; i < count; i++ {
		item := items[i]
		fmt.Fprintf(sb, "#%d  %s\n", i+1, label(item.Record))
		fmt.Fprintf(sb, "    %s away, at %s / %s", item.Distance, item.Position.Left, item.Position.Top)
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(items) > count {
		fmt.Fprintf(sb, "\n... and %d more", len(items)-count)
	}
}

// PrintJobsMap outputs a nearby-jobs resolution. catalog may be nil.
func (p *Printer) PrintJobsMap(res nearby.JobsResult, catalog *locations.Catalog) {
	var sb strings.Builder
	writeHeader(&sb, res, catalog)
	writeItems(p, &sb, res.Items, func(j nearby.JobRecord) string {
		if j.CompanyName == "" {
			return j.Title
		}
		return j.Title + " at " + j.CompanyName
	})
	p.printBox("NEARBY JOB LOCATIONS", sb.String())
}

// PrintTalentMap outputs a nearby-talent resolution. catalog may be nil.
func (p *Printer) PrintTalentMap(res nearby.TalentResult, catalog *locations.Catalog) {
	var sb strings.Builder
	writeHeader(&sb, res, catalog)
	writeItems(p, &sb, res.Items, func(t nearby.TalentRecord) string {
		label := t.Name
		if len(t.Skills) > 0 {
			label += " [" + strings.Join(t.Skills, ", ") + "]"
		}
		return label
	})
	p.printBox("AVAILABLE TALENT LOCATIONS", sb.String())
}

// PrintLocations outputs catalog entries, one per line.
func (p *Printer) PrintLocations(title string, locs []locations.NamedLocation) {
	if len(locs) == 0 {
		p.printBox(title, "No locations")
		return
	}

	var sb strings.Builder
	for i, loc := range locs {
		fmt.Fprintf(&sb, "%4d  %-28s %s", loc.ID, truncate(loc.Name, 28), formatCoordinate(loc.Coordinate()))
		if i < len(locs)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(title, sb.String())
}
