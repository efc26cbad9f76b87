// Package runner executes TeX tools as child processes.
//
// A run is bounded by its context: when the deadline passes, the child and
// everything it spawned (latexmk forks the engine, the engine may fork
// kpsewhich or mktextfm) are killed as a group, and the result is marked
// TimedOut rather than returned as an error. Stdout and stderr are captured
// separately, each capped so a runaway document cannot exhaust memory.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// MaxOutput caps each captured stream. Output past the cap is dropped.
const MaxOutput = 16 * 1024 * 1024

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the direct child has exited or been killed.
const waitDelay = 2 * time.Second

// Result holds what a finished process produced.
type Result struct {
	Argv     []string
	Stdout   string
	Stderr   string
	ExitCode int // -1 when the process was killed
	TimedOut bool
	Duration time.Duration
}

// OK reports whether the process exited zero within its deadline.
func (r Result) OK() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Run executes argv in dir. A non-zero exit is not an error; an error is
// returned only when the process cannot be started or ctx was cancelled
// (as opposed to reaching its deadline).
func Run(ctx context.Context, dir string, argv []string) (Result, error) {
	res := Result{Argv: argv, ExitCode: -1}
	if len(argv) == 0 {
		return res, errors.New("empty command")
	}

	stdout := &capped{max: MaxOutput}
	stderr := &capped{max: MaxOutput}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			res.TimedOut = true
			return res, nil
		}
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay):
		// Child exited but a grandchild kept the pipes; the exit status stands.
		res.ExitCode = cmd.ProcessState.ExitCode()
	default:
		return res, fmt.Errorf("run %s: %w", strings.Join(argv, " "), err)
	}
	return res, nil
}

// capped is a bytes.Buffer that silently stops growing at max bytes.
type capped struct {
	buf bytes.Buffer
	max int
}

func (c *capped) Write(p []byte) (int, error) {
	if room := c.max - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}
	return len(p), nil
}

func (c *capped) String() string {
	return c.buf.String()
}
