// Package compile turns a LaTeX document into a PDF and reports what
// happened in a form an agent can act on.
//
// A compilation is either driven by latexmk (auto mode), which reruns the
// engine and bibliography tools until cross-references settle, or by
// running the engine a fixed number of times (manual mode) with an
// optional bibliography pass after the first. Either way the combined
// output is classified into a status, error and warning lines, and
// located diagnostics.
//
// Failures of the document are results, not errors: Run returns a non-nil
// error only when the request itself is invalid, and even then the Result
// carries status "invalid" so callers can return it as-is.
package compile

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sepinetam/latex-mcp/internal/classify"
	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/latex"
	"github.com/sepinetam/latex-mcp/internal/path"
	"github.com/sepinetam/latex-mcp/internal/runner"
	"github.com/sepinetam/latex-mcp/internal/toolchain"
	"github.com/sepinetam/latex-mcp/internal/validate"
	"github.com/zeebo/blake3"
)

// DefaultTexFile is compiled when no document is named.
const DefaultTexFile = "main.tex"

// Options configures a compilation. Zero values take the defaults from
// package config.
type Options struct {
	TexFile          string         // Main document, relative to WorkingDir
	Mode             latex.Mode     // Auto (latexmk) or manual
	Compiler         latex.Compiler // Engine
	WorkingDir       string         // Absolute directory holding the sources
	Bibliography     string         // .bib file; triggers a bibliography pass in manual mode
	BibTool          latex.BibTool  // bibtex or biber
	Passes           int            // Engine runs in manual mode
	Extra            []string       // Additional engine flags
	CleanAfter       bool           // Remove auxiliary files after a successful build
	Timeout          time.Duration  // Limit for the whole compilation
	MaxLogBytes      int            // Tail of the log kept in Result.Log
	AllowShellEscape bool           // Permit -shell-escape in Extra

	// OnPass, if set, is called before each engine run with its 1-based number.
	OnPass func(pass int)
}

// Result describes a finished compilation.
type Result struct {
	Success      bool                  `json:"success"`
	Status       classify.Status       `json:"status"`
	PDFPath      string                `json:"pdf_path,omitempty"`
	PDFSize      int64                 `json:"pdf_size,omitempty"`
	PDFDigest    string                `json:"pdf_digest,omitempty"`
	Log          string                `json:"log"`
	LogTruncated bool                  `json:"log_truncated,omitempty"`
	Errors       []string              `json:"errors"`
	Warnings     []string              `json:"warnings"`
	Diagnostics  []classify.Diagnostic `json:"diagnostics,omitempty"`
	MissingFiles []string              `json:"missing_files,omitempty"`
	Passes       int                   `json:"passes"`
	DurationMS   int64                 `json:"duration_ms"`
	RunID        string                `json:"run_id"`
	RemovedFiles []string              `json:"removed_files,omitempty"`

	// FullLog is the untruncated output, kept for history.
	FullLog string `json:"-"`
}

// Run compiles a document.
func Run(ctx context.Context, tc *toolchain.Toolchain, opts Options) (Result, error) {
	start := time.Now()
	res := Result{
		RunID:    uuid.NewString(),
		Errors:   []string{},
		Warnings: []string{},
	}

	opts = withDefaults(opts)
	if err := check(opts); err != nil {
		res.Status = classify.StatusInvalid
		res.Errors = append(res.Errors, "Invalid parameter: "+err.Error())
		res.DurationMS = time.Since(start).Milliseconds()
		return res, err
	}

	if info, err := os.Stat(opts.WorkingDir); err != nil || !info.IsDir() {
		res.Status = classify.StatusMissingFile
		res.Errors = append(res.Errors, "Working directory does not exist: "+opts.WorkingDir)
		res.DurationMS = time.Since(start).Milliseconds()
		return res, nil
	}

	texRel, texAbs, err := path.Resolve(opts.WorkingDir, opts.TexFile)
	if err != nil {
		err = fmt.Errorf("tex_file %q: %w", opts.TexFile, err)
		res.Status = classify.StatusInvalid
		res.Errors = append(res.Errors, "Invalid parameter: "+err.Error())
		res.DurationMS = time.Since(start).Milliseconds()
		return res, err
	}
	if _, err := os.Stat(texAbs); err != nil {
		res.Status = classify.StatusMissingFile
		res.Errors = append(res.Errors, "TeX file does not exist: "+opts.TexFile)
		res.MissingFiles = []string{texRel}
		res.DurationMS = time.Since(start).Milliseconds()
		return res, nil
	}

	var bibRel string
	if opts.Mode == latex.ModeManual && opts.Bibliography != "" {
		rel, abs, err := path.Resolve(opts.WorkingDir, opts.Bibliography)
		if err != nil {
			err = fmt.Errorf("bibliography %q: %w", opts.Bibliography, err)
			res.Status = classify.StatusInvalid
			res.Errors = append(res.Errors, "Invalid parameter: "+err.Error())
			res.DurationMS = time.Since(start).Milliseconds()
			return res, err
		}
		if _, err := os.Stat(abs); err != nil {
			res.Warnings = append(res.Warnings, "Bibliography file not found: "+rel)
		}
		bibRel = rel
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var b build
	if opts.Mode == latex.ModeAuto {
		b = runAuto(runCtx, tc, opts, texRel)
	} else {
		b = runManual(runCtx, tc, opts, texRel, bibRel)
	}

	res.Passes = b.passes
	res.Errors = append(res.Errors, b.report.Errors...)
	res.Warnings = append(res.Warnings, b.report.Warnings...)
	res.Diagnostics = b.report.Diagnostics
	res.MissingFiles = b.report.MissingFiles
	res.Status = b.status
	if res.Status == classify.StatusSuccess && len(res.Warnings) > 0 {
		res.Status = classify.StatusWarning
	}

	if res.Status.Succeeded() {
		pdf := path.Stem(texRel) + ".pdf"
		size, digest, err := pdfInfo(filepath.Join(opts.WorkingDir, pdf))
		if err != nil {
			res.Status = classify.StatusError
			res.Errors = append(res.Errors, "No PDF produced: "+pdf)
		} else {
			res.PDFPath = pdf
			res.PDFSize = size
			res.PDFDigest = digest
		}
	}
	res.Success = res.Status.Succeeded()

	if res.Success && opts.CleanAfter {
		cr, err := clean.Run(ctx, io.Discard, opts.WorkingDir, clean.Options{TexFile: texRel})
		if err == nil {
			res.RemovedFiles = cr.RemovedFiles
		}
	}

	res.FullLog = b.log.String()
	res.Log, res.LogTruncated = tail(res.FullLog, opts.MaxLogBytes)
	res.Warnings = dedupe(res.Warnings)
	res.Errors = dedupe(res.Errors)
	res.DurationMS = time.Since(start).Milliseconds()
	return res, nil
}

// Invalid returns the result reported for a request rejected before any
// tool runs.
func Invalid(err error) Result {
	return Result{
		Status:   classify.StatusInvalid,
		RunID:    uuid.NewString(),
		Errors:   []string{"Invalid parameter: " + err.Error()},
		Warnings: []string{},
	}
}

// build accumulates the outcome of the tool runs of one compilation.
type build struct {
	log    strings.Builder
	report classify.Report
	status classify.Status
	passes int
}

// fail records a failure that prevented a tool from producing output.
func (b *build) fail(status classify.Status, err error) {
	b.status = status
	b.report.Errors = append(b.report.Errors, err.Error())
}

func runAuto(ctx context.Context, tc *toolchain.Toolchain, opts Options, tex string) build {
	var b build
	argv, err := tc.LatexmkCommand(opts.Compiler, tex, opts.Extra)
	if err != nil {
		b.fail(unavailableOrError(err), err)
		return b
	}

	if opts.OnPass != nil {
		opts.OnPass(1)
	}
	r, err := runner.Run(ctx, opts.WorkingDir, argv)
	b.passes = 1
	out := combined(r)
	b.log.WriteString(out)
	b.report = classify.Parse(out)
	if err != nil {
		b.fail(classify.StatusError, err)
		return b
	}
	b.status = classify.Classify(r.ExitCode, r.TimedOut, b.report)
	if r.TimedOut {
		b.report.Errors = append(b.report.Errors, timeoutMessage(opts.Timeout))
	}
	return b
}

func runManual(ctx context.Context, tc *toolchain.Toolchain, opts Options, tex, bib string) build {
	var b build
	argv, err := tc.CompileCommand(opts.Compiler, tex, opts.Extra)
	if err != nil {
		b.fail(unavailableOrError(err), err)
		return b
	}

	var last runner.Result
	for i := 1; i <= opts.Passes; i++ {
		if opts.OnPass != nil {
			opts.OnPass(i)
		}
		r, err := runner.Run(ctx, opts.WorkingDir, argv)
		b.passes = i
		out := combined(r)
		if i > 1 {
			b.log.WriteString("\n")
		}
		fmt.Fprintf(&b.log, "--- Pass %d ---\n%s", i, out)
		b.report.Merge(classify.Parse(out))
		if err != nil {
			b.fail(classify.StatusError, err)
			return b
		}
		last = r
		if !r.OK() {
			break
		}

		if i == 1 && bib != "" {
			b.bibliography(ctx, tc, opts, tex)
		}
	}

	b.status = classify.Classify(last.ExitCode, last.TimedOut, b.report)
	if last.TimedOut {
		b.report.Errors = append(b.report.Errors, timeoutMessage(opts.Timeout))
	}
	return b
}

// bibliography runs the bibliography tool between the first and second
// engine passes. Its failure is reported as a warning: the document still
// builds, with unresolved citations.
func (b *build) bibliography(ctx context.Context, tc *toolchain.Toolchain, opts Options, tex string) {
	argv, err := tc.BibCommand(opts.BibTool, path.Stem(tex))
	if err != nil {
		b.report.Warnings = append(b.report.Warnings, err.Error()+"; bibliography skipped")
		return
	}
	r, err := runner.Run(ctx, opts.WorkingDir, argv)
	fmt.Fprintf(&b.log, "\n--- %s ---\n%s", opts.BibTool, combined(r))
	switch {
	case err != nil:
		b.report.Warnings = append(b.report.Warnings, fmt.Sprintf("%s failed: %v", opts.BibTool, err))
	case r.TimedOut:
		b.report.Warnings = append(b.report.Warnings, fmt.Sprintf("%s timed out", opts.BibTool))
	case r.ExitCode != 0:
		b.report.Warnings = append(b.report.Warnings, fmt.Sprintf("%s exited with status %d", opts.BibTool, r.ExitCode))
	}
}

func withDefaults(o Options) Options {
	if o.TexFile == "" {
		o.TexFile = DefaultTexFile
	}
	if o.Mode == "" {
		o.Mode = latex.ModeAuto
	}
	if o.Compiler == "" {
		o.Compiler = latex.PDFLaTeX
	}
	if o.BibTool == "" {
		o.BibTool = latex.BibTeX
	}
	if o.Passes == 0 {
		o.Passes = config.DefaultPasses
	}
	if o.Timeout <= 0 {
		o.Timeout = config.DefaultTimeout
	}
	if o.MaxLogBytes <= 0 {
		o.MaxLogBytes = config.DefaultMaxLogBytes
	}
	return o
}

func check(o Options) error {
	if err := validate.TexFile(o.TexFile); err != nil {
		return err
	}
	if _, err := latex.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if _, err := latex.ParseCompiler(string(o.Compiler)); err != nil {
		return err
	}
	if _, err := latex.ParseBibTool(string(o.BibTool)); err != nil {
		return err
	}
	if err := validate.Passes(o.Passes); err != nil {
		return err
	}
	if !filepath.IsAbs(o.WorkingDir) {
		return fmt.Errorf("working_dir %q must be absolute", o.WorkingDir)
	}
	return validate.Options(o.Extra, o.AllowShellEscape)
}

func unavailableOrError(err error) classify.Status {
	if errors.Is(err, toolchain.ErrToolNotFound) {
		return classify.StatusUnavailable
	}
	return classify.StatusError
}

func timeoutMessage(d time.Duration) string {
	return fmt.Sprintf("Compilation timed out after %s", d)
}

// combined joins both output streams; TeX writes to stdout, latexmk and
// failing helpers to stderr.
func combined(r runner.Result) string {
	out := strings.ToValidUTF8(r.Stdout, "�")
	if r.Stderr != "" {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += "--- stderr ---\n" + strings.ToValidUTF8(r.Stderr, "�")
	}
	return out
}

// tail keeps the last max bytes of s, starting on a rune boundary.
// TeX reports the fatal error at the end of its output.
func tail(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return fmt.Sprintf("[... %d bytes truncated ...]\n", cut) + s[cut:], true
}

func pdfInfo(name string) (int64, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := blake3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
