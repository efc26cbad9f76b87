// compile.go implements the "latex-mcp compile" command.
//
// The flags mirror the latex_compile tool parameters. They are defined in
// one pflag.FlagSet shared with watch, so both commands accept the same
// options with the same defaults.

package latex

import (
	"context"
	"fmt"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/duration"
	"github.com/sepinetam/latex-mcp/internal/format"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/sepinetam/latex-mcp/internal/progress"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/sepinetam/latex-mcp/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (e *Extension) newCompileCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "compile [tex-file]",
		Short: "Compile a LaTeX document to PDF",
		Long: `Compile a LaTeX document in the working directory (default: main.tex).

  latex-mcp compile                         # main.tex with configured defaults
  latex-mcp compile paper.tex -c xelatex    # CJK or system fonts
  latex-mcp compile -m manual -n 3 -b refs.bib
  latex-mcp compile --option -synctex=1 --clean

Exits 1 unless the status is success or warning. With -o json the result
has the same shape latex_compile returns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runCompile,
	}
	c.Flags().AddFlagSet(compileFlags())
	return c
}

// compileFlags returns the flags shared by compile and watch.
func compileFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("compile", pflag.ContinueOnError)
	fs.StringP(extension.FlagCompiler, "c", "", "Engine: pdflatex, xelatex, lualatex (default: compile.compiler)")
	fs.StringP(extension.FlagMode, "m", "", "auto (latexmk) or manual (default: compile.mode)")
	fs.IntP(extension.FlagPasses, "n", 0, "Engine runs in manual mode, 1-5 (default: compile.passes)")
	fs.StringP(extension.FlagBibliography, "b", "", ".bib file; manual mode runs the bibliography tool after pass 1")
	fs.String(extension.FlagBibTool, "", "Bibliography tool: bibtex or biber")
	fs.StringArray(extension.FlagOption, nil, "Extra engine flag (repeatable)")
	fs.Bool(extension.FlagClean, false, "Remove auxiliary files after a successful build")
	fs.String(extension.FlagTimeout, "", "Time limit, e.g. 90s or 5m (default: compile.timeout)")
	return fs
}

// request builds a compile request from the shared flags.
func request(c *cobra.Command, args []string) (service.CompileRequest, error) {
	f := c.Flags()
	r := service.CompileRequest{WorkingDir: cmd.Dir()}
	if len(args) > 0 {
		r.TexFile = args[0]
	}
	r.Compiler, _ = f.GetString(extension.FlagCompiler)
	r.Mode, _ = f.GetString(extension.FlagMode)
	r.Bibliography, _ = f.GetString(extension.FlagBibliography)
	r.BibTool, _ = f.GetString(extension.FlagBibTool)
	r.Options, _ = f.GetStringArray(extension.FlagOption)
	r.CleanAfter, _ = f.GetBool(extension.FlagClean)

	if f.Changed(extension.FlagPasses) {
		n, _ := f.GetInt(extension.FlagPasses)
		if err := validate.Passes(n); err != nil {
			return r, fmt.Errorf("--%s: %w", extension.FlagPasses, err)
		}
		r.Passes = n
	}
	if s, _ := f.GetString(extension.FlagTimeout); s != "" {
		d, err := duration.Parse(s)
		if err != nil {
			return r, fmt.Errorf("--%s: %w", extension.FlagTimeout, err)
		}
		r.Timeout = d
	}
	return r, nil
}

func (e *Extension) runCompile(c *cobra.Command, args []string) error {
	req, err := request(c, args)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	res, dir := e.compile(c.Context(), req, "latex:compile")
	if err := report(res, dir); err != nil {
		return err
	}
	if !res.Success {
		return cmd.Fail(c, fmt.Errorf("compile: %s", res.Status))
	}
	return nil
}

// compile resolves, runs and logs one compilation. It returns the result
// and the resolved working directory; rejected requests come back as a
// result with status "invalid".
func (e *Extension) compile(ctx context.Context, req service.CompileRequest, source string) (compile.Result, string) {
	ev := log.Event(source, "compile").
		TexFile(req.TexFile).
		Compiler(req.Compiler).
		Mode(req.Mode)

	opts, err := e.svc.Options(req)
	if err != nil {
		res := compile.Invalid(err)
		ev.Project(req.WorkingDir).Status(string(res.Status)).RunID(res.RunID).Write(err)
		return res, ""
	}

	name := opts.TexFile
	sp := progress.NewSpinner("Compiling " + name)
	opts.OnPass = func(n int) {
		if n > 1 {
			sp.SetLabel(fmt.Sprintf("Compiling %s (pass %d)", name, n))
		}
	}
	sp.Start()
	res, err := e.svc.Compile(ctx, opts)
	sp.Stop()

	ev.Project(opts.WorkingDir).
		TexFile(opts.TexFile).
		Compiler(string(opts.Compiler)).
		Mode(string(opts.Mode)).
		Status(string(res.Status)).
		RunID(res.RunID).
		Detail("passes", res.Passes).
		Detail("duration_ms", res.DurationMS).
		Output(res.FullLog).
		Write(err)

	return res, opts.WorkingDir
}

// report prints a compile result as JSON or text. Text output includes
// source excerpts when dir is known.
func report(res compile.Result, dir string) error {
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	return format.Compile(cmd.Out(), res, dir, cmd.Colour())
}
