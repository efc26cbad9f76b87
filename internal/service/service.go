// Package service defines the shared interface for compilation operations.
// Commands, MCP handlers and extensions depend on this interface rather than
// the concrete implementation in package workspace, enabling testing with
// fakes.
package service

import (
	"context"
	"io"
	"time"

	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/toolchain"
)

// CompileRequest is a compilation as asked for by a caller. String fields
// are parsed and empty or zero fields take the configured defaults.
type CompileRequest struct {
	TexFile      string
	Mode         string
	Compiler     string
	WorkingDir   string
	Bibliography string
	BibTool      string
	Passes       int // 0 uses compile.passes
	Options      []string
	CleanAfter   bool
	Timeout      time.Duration // 0 uses compile.timeout

	// OnPass is passed through to compile.Options.
	OnPass func(pass int)
}

// Service defines all compilation operations.
//
// Obtain an implementation with workspace.New and always call Close when
// done (use defer).
//
// Example:
//
//	svc, err := workspace.New()
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	opts, err := svc.Options(service.CompileRequest{TexFile: "paper.tex"})
//	if err != nil {
//	    return err
//	}
//	res, err := svc.Compile(ctx, opts)
type Service interface {
	// Close releases resources. Always defer this after New().
	Close() error

	// ReloadConfig re-reads configuration from disk. Call after modifying
	// config so defaults used by later requests reflect the change.
	ReloadConfig() error

	// Config returns the configuration currently in effect.
	Config() *config.Config

	// WorkingDir resolves a working directory argument to an absolute path.
	// An empty dir uses workspace.dir, then the process working directory.
	WorkingDir(dir string) (string, error)

	// Options resolves a request against the configured defaults. Unknown
	// modes, compilers and bibliography tools are returned as errors
	// wrapping the latex package sentinels.
	Options(req CompileRequest) (compile.Options, error)

	// Compile runs a compilation. See compile.Run for the error contract.
	Compile(ctx context.Context, opts compile.Options) (compile.Result, error)

	// Clean removes auxiliary files from dir. A non-empty texFile limits
	// removal to that document's job files and must lie inside dir.
	Clean(ctx context.Context, w io.Writer, dir, texFile string) (clean.Result, error)

	// Inventory lists the installed engines and helper programs.
	Inventory() toolchain.Inventory
}
