// Package watch rebuilds a document when its sources change.
//
// The working directory tree is watched with fsnotify. Events are filtered
// to source-like files and debounced, so an editor's save (often a write,
// a rename and a chmod) or a burst of generated figures triggers one build.
// The files a build writes itself never trigger another.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sepinetam/latex-mcp/internal/clean"
)

// DefaultDebounce is the quiet period after the last change before a build.
const DefaultDebounce = 300 * time.Millisecond

// SourceExtensions lists the suffixes whose changes trigger a build.
var SourceExtensions = []string{
	".tex", ".bib", ".sty", ".cls", ".bst", ".bbx", ".cbx", ".def", ".cfg",
	".png", ".jpg", ".jpeg", ".eps", ".svg", ".pdf",
}

// Options configures Run.
type Options struct {
	Dir      string        // Absolute directory to watch, recursively
	Output   string        // File the build writes (e.g. main.pdf), relative to Dir
	Debounce time.Duration // Default DefaultDebounce

	// OnReady, if set, is called once every directory is watched.
	OnReady func()
	// OnError, if set, receives watcher errors. Watching continues.
	OnError func(error)
}

// BuildFunc rebuilds after a change. changed lists the files, relative to
// the watched directory, that changed since the previous build.
type BuildFunc func(ctx context.Context, changed []string)

// Run watches opts.Dir and calls build after changes until ctx is done.
// Builds run on the calling goroutine, one at a time; changes made during
// a build are collected for the next one.
func Run(ctx context.Context, opts Options, build BuildFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addTree(w, opts.Dir); err != nil {
		return err
	}
	if opts.OnReady != nil {
		opts.OnReady()
	}

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !hidden(filepath.Base(ev.Name)) {
						_ = addTree(w, ev.Name)
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			rel, ok := opts.relevant(ev.Name)
			if !ok {
				continue
			}
			pending[rel] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(opts.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			slices.Sort(changed)
			clear(pending)
			build(ctx, changed)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}

// relevant reports whether a change to name should trigger a build, and
// returns name relative to the watched directory.
func (o Options) relevant(name string) (string, bool) {
	rel, err := filepath.Rel(o.Dir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == filepath.ToSlash(o.Output) {
		return "", false
	}
	for _, part := range strings.Split(rel, "/") {
		if hidden(part) {
			return "", false
		}
	}
	base := filepath.Base(name)
	if clean.IsAux(base, "") {
		return "", false
	}
	return rel, slices.Contains(SourceExtensions, strings.ToLower(filepath.Ext(base)))
}

// hidden reports dot-files and dot-directories, which covers .git and
// .latex-mcp as well as editor swap files.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// addTree watches root and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
