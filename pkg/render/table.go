package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/quiverhq/quiver/pkg/registry"
)

// Options configures rendering behavior.
type Options struct {
	NoColor bool
}

// NoChanges prints the notice for a check that found nothing to report.
func NoChanges(w io.Writer, opts *Options) {
	green := color.New(color.FgGreen)
	if opts != nil && opts.NoColor {
		green.DisableColor()
	}
	green.Fprintln(w, "No changes present between schemas")
}

// Changes renders the full change table, ordered as the registry returned
// it, followed by a severity summary line.
func Changes(w io.Writer, changes []registry.SchemaChange, opts *Options) {
	noColor := opts != nil && opts.NoColor

	headers := []string{"Change", "Code", "Description"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		row := []string{string(c.Type), c.Code, c.Description}
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		rows = append(rows, row)
	}

	bold := color.New(color.Bold)
	if noColor {
		bold.DisableColor()
	}
	for i, h := range headers {
		bold.Fprint(w, padRight(h, widths[i]))
		if i < len(headers)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", widths[0]+widths[1]+widths[2]+4))

	for i, row := range rows {
		severity := severityColor(changes[i].Type)
		if noColor {
			severity.DisableColor()
		}
		severity.Fprint(w, padRight(row[0], widths[0]))
		fmt.Fprint(w, "  ")
		fmt.Fprint(w, padRight(row[1], widths[1]))
		fmt.Fprint(w, "  ")
		fmt.Fprintln(w, row[2])
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summary(changes))
}

func severityColor(t registry.ChangeType) *color.Color {
	switch t {
	case registry.ChangeFailure:
		return color.New(color.FgRed)
	case registry.ChangeWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func summary(changes []registry.SchemaChange) string {
	var failures, warnings, notices int
	for _, c := range changes {
		switch c.Type {
		case registry.ChangeFailure:
			failures++
		case registry.ChangeWarning:
			warnings++
		default:
			notices++
		}
	}
	return fmt.Sprintf("%d breaking, %d warning, %d notice change(s) found", failures, warnings, notices)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
