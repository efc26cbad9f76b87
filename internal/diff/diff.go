// Package diff compares the output of two compile runs line by line, so
// an agent or user can see what a change to the sources did to the log.
package diff

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changes.
// When equal sections exceed 2*contextLines, they're collapsed with "...".
const contextLines = 3

// Source looks up the stored output of a run by reference.
type Source interface {
	Output(ctx context.Context, ref string) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, ref string) (string, error)

// Output calls f.
func (f SourceFunc) Output(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// Result holds diff output.
type Result struct {
	Old     string `json:"old"`  // old label
	New     string `json:"new"`  // new label
	Diff    string `json:"diff"` // plain diff text
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

// Run diffs the outputs of two runs and writes the formatted diff to w.
func Run(ctx context.Context, w io.Writer, src Source, oldRef, newRef string, colour bool) (Result, error) {
	oldText, err := src.Output(ctx, oldRef)
	if err != nil {
		return Result{}, err
	}
	newText, err := src.Output(ctx, newRef)
	if err != nil {
		return Result{}, err
	}

	r := Compute(oldText, newText, oldRef, newRef)
	fmt.Fprint(w, r.Format(colour))
	return r, nil
}

// Compute returns a line diff between old and new content.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	d := dmp.DiffMain(a, b, false)
	d = dmp.DiffCharsToLines(d, lines)

	r := Result{Old: oldLabel, New: newLabel}
	r.Diff = format(d, &r)
	return r
}

// format converts diffs to unified-style text and counts changed lines.
func format(diffs []diffmatchpatch.Diff, r *Result) string {
	var b strings.Builder
	for _, d := range diffs {
		// Trim trailing newline to avoid artefact empty string from Split
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			r.Removed += len(lines)
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			r.Added += len(lines)
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the full diff with header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// ParseRange parses "old:new" into two run references.
func ParseRange(s string) (oldRef, newRef string, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid run range %q (expected old:new)", s)
	}
	oldRef, newRef = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if oldRef == "" || newRef == "" {
		return "", "", fmt.Errorf("invalid run range %q: both runs required", s)
	}
	return oldRef, newRef, nil
}
