// Package workspace implements service.Service against the TeX toolchain
// installed on the host (or in the container image).
package workspace

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/latex"
	"github.com/sepinetam/latex-mcp/internal/path"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/sepinetam/latex-mcp/internal/toolchain"
)

var _ service.Service = (*Service)(nil)

// Service compiles documents with a cached toolchain. Configuration may be
// reloaded while requests are in flight.
type Service struct {
	tc *toolchain.Toolchain

	mu  sync.RWMutex
	cfg *config.Config
}

// New loads configuration and returns a Service searching PATH for tools.
func New() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err // config.Load provides detailed, actionable error messages
	}
	return NewWith(cfg, toolchain.New()), nil
}

// NewWith returns a Service using the given configuration and toolchain.
func NewWith(cfg *config.Config, tc *toolchain.Toolchain) *Service {
	return &Service{tc: tc, cfg: cfg}
}

// Close releases resources. The Service holds no open handles today; the
// method exists to satisfy service.Service.
func (s *Service) Close() error {
	return nil
}

// ReloadConfig reloads configuration from disk.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Config returns the configuration currently in effect.
func (s *Service) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// WorkingDir resolves dir against workspace.dir and the process cwd.
func (s *Service) WorkingDir(dir string) (string, error) {
	return path.Dir(dir, s.Config().WorkspaceDir())
}

// Options resolves a request against the configured defaults.
func (s *Service) Options(req service.CompileRequest) (compile.Options, error) {
	cfg := s.Config()

	dir, err := s.WorkingDir(req.WorkingDir)
	if err != nil {
		return compile.Options{}, fmt.Errorf("working_dir: %w", err)
	}

	opts := compile.Options{
		TexFile:          req.TexFile,
		Mode:             cfg.Mode(),
		Compiler:         cfg.Compiler(),
		WorkingDir:       dir,
		Bibliography:     req.Bibliography,
		Passes:           cfg.Passes(),
		Extra:            req.Options,
		CleanAfter:       req.CleanAfter,
		Timeout:          cfg.Timeout(),
		MaxLogBytes:      cfg.MaxLogBytes(),
		AllowShellEscape: cfg.AllowShellEscape(),
		OnPass:           req.OnPass,
	}
	if opts.TexFile == "" {
		opts.TexFile = compile.DefaultTexFile
	}
	if req.Mode != "" {
		if opts.Mode, err = latex.ParseMode(req.Mode); err != nil {
			return opts, err
		}
	}
	if req.Compiler != "" {
		if opts.Compiler, err = latex.ParseCompiler(req.Compiler); err != nil {
			return opts, err
		}
	}
	if opts.BibTool, err = latex.ParseBibTool(req.BibTool); err != nil {
		return opts, err
	}
	if req.Passes != 0 {
		opts.Passes = req.Passes
	}
	if req.Timeout != 0 {
		if req.Timeout < config.MinTimeout || req.Timeout > config.MaxTimeout {
			return opts, fmt.Errorf("timeout %s outside %s..%s", req.Timeout, config.MinTimeout, config.MaxTimeout)
		}
		opts.Timeout = req.Timeout
	}
	return opts, nil
}

// Compile runs a compilation.
func (s *Service) Compile(ctx context.Context, opts compile.Options) (compile.Result, error) {
	return compile.Run(ctx, s.tc, opts)
}

// Clean removes auxiliary files.
func (s *Service) Clean(ctx context.Context, w io.Writer, dir, texFile string) (clean.Result, error) {
	abs, err := s.WorkingDir(dir)
	if err != nil {
		return clean.Result{}, fmt.Errorf("working_dir: %w", err)
	}
	if texFile != "" {
		rel, _, err := path.Resolve(abs, texFile)
		if err != nil {
			return clean.Result{}, fmt.Errorf("tex_file %q: %w", texFile, err)
		}
		texFile = rel
	}
	return clean.Run(ctx, w, abs, clean.Options{TexFile: texFile})
}

// Inventory lists the installed tools.
func (s *Service) Inventory() toolchain.Inventory {
	return s.tc.Inventory()
}
