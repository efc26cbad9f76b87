// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment, status colouring, and source excerpts.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sepinetam/latex-mcp/internal/classify"
	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/sepinetam/latex-mcp/internal/toolchain"
)

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// statusColours maps each status to an ANSI 16-colour index.
var statusColours = map[classify.Status]string{
	classify.StatusSuccess:     "2", // green
	classify.StatusWarning:     "3", // yellow
	classify.StatusError:       "1", // red
	classify.StatusMissingFile: "1",
	classify.StatusTimeout:     "5", // magenta
	classify.StatusUnavailable: "5",
	classify.StatusInvalid:     "1",
}

// Status renders a status label, coloured when colour is true.
func Status(s classify.Status, colour bool) string {
	label := strings.ToUpper(string(s))
	if !colour {
		return label
	}
	c, ok := statusColours[s]
	if !ok {
		return label
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c)).Render(label)
}

// Compile prints a compile result: status line, errors, warnings and, when
// dir is non-empty, source excerpts around located diagnostics.
func Compile(w io.Writer, res compile.Result, dir string, colour bool) error {
	fmt.Fprintf(w, "%s", Status(res.Status, colour))
	if res.PDFPath != "" {
		fmt.Fprintf(w, "  %s (%s)", res.PDFPath, humanSize(res.PDFSize))
	}
	fmt.Fprintf(w, "  %d pass(es) in %s\n", res.Passes, (time.Duration(res.DurationMS) * time.Millisecond).String())

	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	if len(res.MissingFiles) > 0 {
		fmt.Fprintf(w, "\nMissing files:\n")
		for _, f := range res.MissingFiles {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, wn := range res.Warnings {
			fmt.Fprintf(w, "  %s\n", wn)
		}
	}
	if dir != "" {
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "\n%s:%d: %s\n", d.File, d.Line, d.Message)
			if err := Excerpt(w, dir, d, colour); err != nil {
				fmt.Fprintf(w, "  (source unavailable: %v)\n", err)
			}
		}
	}
	if len(res.RemovedFiles) > 0 {
		fmt.Fprintf(w, "\nRemoved %d auxiliary file(s)\n", len(res.RemovedFiles))
	}
	return nil
}

// Inventory prints the installed engines and helper programs.
func Inventory(w io.Writer, inv toolchain.Inventory) error {
	list := func(items []string) string {
		if len(items) == 0 {
			return "(none)"
		}
		return strings.Join(items, ", ")
	}
	fmt.Fprintf(w, "Compilers:    %s\n", list(inv.Compilers))
	fmt.Fprintf(w, "Aux commands: %s\n", list(inv.AuxCommands))
	latexmk := "no"
	if inv.LatexmkAvailable {
		latexmk = "yes"
	}
	fmt.Fprintf(w, "latexmk:      %s\n", latexmk)
	return nil
}

// Clean prints the outcome of a clean operation.
func Clean(w io.Writer, res clean.Result) error {
	fmt.Fprintln(w, res.Message)
	return nil
}

// History prints history records, newest first.
//
// Column order is ID, STARTED, STATUS, DURATION, SOURCE, FILE. Fixed-width
// columns come first so they align properly.
func History(w io.Writer, records []log.Record, colour bool) error {
	if len(records) == 0 {
		return nil
	}

	fmt.Fprintf(w, "%5s  %-16s  %-12s  %8s  %-20s  %s\n", "ID", "STARTED", "STATUS", "DURATION", "SOURCE", "FILE")
	for _, r := range records {
		status := r.Status
		if status == "" {
			status = r.Action
			if !r.Success {
				status += " (failed)"
			}
		}
		// Pad before styling so escape codes don't break alignment.
		label := fmt.Sprintf("%-12s", status)
		if c, ok := statusColours[classify.Status(r.Status)]; ok && colour {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(label)
		}
		file := r.TexFile
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(w, "%5d  %s  %s  %8s  %-20s  %s\n",
			r.ID,
			r.Start.Format("2006-01-02 15:04"),
			label,
			r.End.Sub(r.Start).Round(time.Millisecond).String(),
			r.Source,
			file,
		)
	}
	return nil
}

// Record prints one history record in detail.
func Record(w io.Writer, r log.Record) error {
	fmt.Fprintf(w, "ID:       %d\n", r.ID)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run:      %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Source:   %s\n", r.Source)
	fmt.Fprintf(w, "Action:   %s\n", r.Action)
	fmt.Fprintf(w, "Started:  %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", r.End.Sub(r.Start).Round(time.Millisecond))
	for _, f := range []struct{ label, value string }{
		{"File", r.TexFile}, {"Compiler", r.Compiler}, {"Mode", r.Mode}, {"Status", r.Status}, {"Error", r.Error},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "%-9s %s\n", f.label+":", f.value)
		}
	}
	return nil
}
