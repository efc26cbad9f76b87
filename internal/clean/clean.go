// Package clean removes the intermediate files a LaTeX build leaves next to
// its sources.
//
// Only files ending in one of AuxExtensions are touched, and only in the
// working directory itself: TeX writes every job file there regardless of
// where the main document lives. Sources, images, bibliographies and the
// PDF are never removed.
package clean

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sepinetam/latex-mcp/internal/path"
)

// AuxExtensions lists the suffixes of files produced by LaTeX, latexmk and
// the bibliography, index and glossary tools.
var AuxExtensions = []string{
	".aux", ".log", ".out", ".toc", ".lof", ".lot", ".fls", ".fdb_latexmk",
	".bbl", ".blg", ".nav", ".snm", ".vrb", ".dvi", ".ps", ".idx", ".ilg",
	".ind", ".glo", ".gls", ".acn", ".acr", ".ist", ".bcf", ".run.xml",
	".xdv", ".synctex.gz",
}

// Options configures a clean operation.
type Options struct {
	TexFile string // Limit removal to this document's job files; empty removes all
}

// Result contains the outcome of a clean operation.
type Result struct {
	Success      bool     `json:"success"`
	RemovedFiles []string `json:"removed_files"`
	Message      string   `json:"message"`
}

// Run removes auxiliary files from dir, which must be absolute.
// Files that cannot be removed are skipped.
func Run(ctx context.Context, w io.Writer, dir string, opts Options) (Result, error) {
	result := Result{RemovedFiles: []string{}}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		result.Message = fmt.Sprintf("Working directory does not exist: %s", dir)
		return result, nil
	}

	stem := ""
	if opts.TexFile != "" {
		stem = path.Stem(opts.TexFile)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !e.Type().IsRegular() || !IsAux(e.Name(), stem) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			continue
		}
		result.RemovedFiles = append(result.RemovedFiles, e.Name())
		fmt.Fprintf(w, "Removed %s\n", e.Name())
	}

	result.Success = true
	result.Message = fmt.Sprintf("Removed %d auxiliary file(s)", len(result.RemovedFiles))
	return result, nil
}

// IsAux reports whether name is an auxiliary file. When stem is non-empty
// the name must also belong to that job.
func IsAux(name, stem string) bool {
	for _, ext := range AuxExtensions {
		if !strings.HasSuffix(name, ext) {
			continue
		}
		if stem == "" {
			return len(name) > len(ext)
		}
		if name == stem+ext {
			return true
		}
	}
	return false
}
