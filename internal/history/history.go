// Package history reports past compilations of a working directory.
//
// Every compile run through the CLI or the MCP server is recorded in the
// history log with its status and full compiler output. This package
// turns those records into listings, detail views and log diffs, so a
// regression ("it built yesterday") can be traced to the pass that broke.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sepinetam/latex-mcp/internal/classify"
	"github.com/sepinetam/latex-mcp/internal/diff"
	"github.com/sepinetam/latex-mcp/internal/format"
	"github.com/sepinetam/latex-mcp/internal/log"
)

// ActionCompile is the log action recorded for compilations.
const ActionCompile = "compile"

// ErrDisabled replaces log.ErrNotOpen with a message that says how to
// turn history back on.
var ErrDisabled = errors.New("compile history is disabled (set history.enabled true)")

// ErrTooFew is returned by Latest when fewer than two runs are recorded.
var ErrTooFew = errors.New("need at least two recorded compiles to diff")

// Options configures a history listing.
type Options struct {
	Dir    string // working directory; empty lists every directory
	Limit  int    // maximum runs, newest first (0 = 20)
	Failed bool   // only runs that did not produce a PDF
	Colour bool   // style the status column
}

// Result contains the outcome of a listing.
type Result struct {
	Runs []log.Record `json:"runs"`
}

// Entry is one run with its compiler output.
type Entry struct {
	log.Record
	Log string `json:"log,omitempty"`
}

// Run lists recent compiles and writes the table to w.
func Run(ctx context.Context, w io.Writer, opts Options) (Result, error) {
	f := log.Filter{Project: opts.Dir, Action: ActionCompile, Limit: opts.Limit}
	if opts.Failed {
		f.ExcludeStatus = builtStatuses
	}
	records, err := log.Recent(ctx, f)
	if err != nil {
		return Result{}, wrap(err)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No compiles recorded")
		return Result{Runs: records}, nil
	}
	return Result{Runs: records}, format.History(w, records, opts.Colour)
}

// Show writes one run in detail. With withLog the stored compiler output
// follows the summary.
func Show(ctx context.Context, w io.Writer, ref string, withLog bool) (Entry, error) {
	r, err := log.Get(ctx, ref)
	if err != nil {
		return Entry{}, wrap(err)
	}
	e := Entry{Record: r}
	if err := format.Record(w, r); err != nil {
		return e, err
	}
	if !withLog {
		return e, nil
	}

	e.Log, err = log.Output(ctx, ref)
	if err != nil {
		return e, wrap(err)
	}
	if e.Log == "" {
		fmt.Fprintln(w, "\n(no compiler output recorded)")
		return e, nil
	}
	fmt.Fprintf(w, "\n%s", e.Log)
	if e.Log[len(e.Log)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return e, nil
}

// Diff writes a line diff of the compiler output of two runs.
func Diff(ctx context.Context, w io.Writer, oldRef, newRef string, colour bool) (diff.Result, error) {
	res, err := diff.Run(ctx, w, diff.SourceFunc(log.Output), oldRef, newRef, colour)
	return res, wrap(err)
}

// Latest returns the ids of the two most recent compiles in dir, oldest
// first, for a diff with no explicit range.
func Latest(ctx context.Context, dir string) (oldRef, newRef string, err error) {
	records, err := log.Recent(ctx, log.Filter{Project: dir, Action: ActionCompile, Limit: 2})
	if err != nil {
		return "", "", wrap(err)
	}
	if len(records) < 2 {
		return "", "", ErrTooFew
	}
	return fmt.Sprint(records[1].ID), fmt.Sprint(records[0].ID), nil
}

// builtStatuses are the statuses of runs that ended with a PDF.
var builtStatuses = []string{string(classify.StatusSuccess), string(classify.StatusWarning)}

func wrap(err error) error {
	if errors.Is(err, log.ErrNotOpen) {
		return ErrDisabled
	}
	return err
}
