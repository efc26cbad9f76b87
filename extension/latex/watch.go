// watch.go implements the "latex-mcp watch" command: compile once, then
// recompile whenever a source in the working directory changes.

package latex

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/sepinetam/latex-mcp/internal/path"
	"github.com/sepinetam/latex-mcp/internal/watch"
	"github.com/spf13/cobra"
)

func (e *Extension) newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch [tex-file]",
		Short: "Recompile when sources change",
		Long: `Compile a document, then recompile whenever a .tex, .bib, .sty, .cls or
image file under the working directory changes. Output files and hidden
directories are ignored. Stop with Ctrl-C.

Accepts the same flags as compile. With -o json, one result is printed
per build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runWatch,
	}
	c.Flags().AddFlagSet(compileFlags())
	return c
}

func (e *Extension) runWatch(c *cobra.Command, args []string) error {
	req, err := request(c, args)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	opts, err := e.svc.Options(req)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("watch: %w", err))
	}
	// Pin the resolved directory so a config reload mid-watch cannot move it.
	req.WorkingDir = opts.WorkingDir
	req.TexFile = opts.TexFile

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builds := 0
	build := func(ctx context.Context, changed []string) {
		if len(changed) > 0 && !cmd.JSON() {
			fmt.Fprintf(cmd.Out(), "\nChanged: %s\n", changedLine(changed))
		}
		res, dir := e.compile(ctx, req, "latex:watch")
		builds++
		if err := report(res, dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	build(ctx, nil)
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "\nWatching %s (Ctrl-C to stop)\n", opts.WorkingDir)
	}

	err = watch.Run(ctx, watch.Options{
		Dir:    opts.WorkingDir,
		Output: path.Stem(opts.TexFile) + ".pdf",
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "warning: watcher: %v\n", err)
		},
	}, build)

	log.Event("latex:watch", "watch").
		Project(opts.WorkingDir).
		TexFile(opts.TexFile).
		Detail("builds", builds).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("watch %s: %w", opts.WorkingDir, err))
	}
	return nil
}

// changedLine summarises the files that triggered a rebuild.
func changedLine(changed []string) string {
	const shown = 5
	if len(changed) > shown {
		return fmt.Sprintf("%s and %d more", strings.Join(changed[:shown], ", "), len(changed)-shown)
	}
	return strings.Join(changed, ", ")
}
