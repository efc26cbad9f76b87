// Package path resolves files named by an agent against the working
// directory that was bind-mounted into the container.
//
// Agents see the same absolute paths inside and outside the container, so
// both relative ("chapters/intro.tex") and absolute
// ("/home/me/paper/main.tex") names are accepted. Either way the result
// must stay inside the working directory: ".." components that climb out
// of it and absolute paths elsewhere are rejected. Symbolic links are
// followed before the check, so a link inside the directory that points
// out of it is rejected too.
package path

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalid indicates an empty or malformed file name.
var ErrInvalid = errors.New("invalid file path")

// ErrOutside indicates a file name that resolves outside the working directory.
var ErrOutside = errors.New("path escapes working directory")

// Resolve returns name relative to root and its absolute form.
// root must be absolute; name may be relative to root or absolute.
func Resolve(root, name string) (rel, abs string, err error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsRune(name, 0) {
		return "", "", ErrInvalid
	}

	root = filepath.Clean(root)
	if filepath.IsAbs(name) {
		abs = filepath.Clean(name)
	} else {
		abs = filepath.Join(root, name)
	}

	rel, err = filepath.Rel(root, abs)
	if err != nil {
		return "", "", ErrOutside
	}
	if rel == "." {
		return "", "", ErrInvalid
	}
	if escapes(rel) {
		return "", "", ErrOutside
	}

	realRel, err := filepath.Rel(evalExisting(root), evalExisting(abs))
	if err != nil || escapes(realRel) {
		return "", "", ErrOutside
	}
	return rel, abs, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalExisting resolves symbolic links in the longest existing prefix of
// p and appends the rest unchanged, so names of files not yet written
// still resolve through a linked parent directory. A dangling link is
// followed to where it points.
func evalExisting(p string) string {
	return evalDepth(p, 0)
}

// maxLinks bounds link chains, like the kernel's ELOOP limit.
const maxLinks = 40

func evalDepth(p string, depth int) string {
	var rest []string
	for {
		if real, err := filepath.EvalSymlinks(p); err == nil {
			return join(real, rest)
		}
		if fi, err := os.Lstat(p); err == nil && fi.Mode()&os.ModeSymlink != 0 && depth < maxLinks {
			if target, err := os.Readlink(p); err == nil {
				if !filepath.IsAbs(target) {
					target = filepath.Join(filepath.Dir(p), target)
				}
				return join(evalDepth(target, depth+1), rest)
			}
		}
		parent := filepath.Dir(p)
		if parent == p {
			return join(p, rest)
		}
		rest = append(rest, filepath.Base(p))
		p = parent
	}
}

// join appends the reversed components in rest to p.
func join(p string, rest []string) string {
	for i := len(rest) - 1; i >= 0; i-- {
		p = filepath.Join(p, rest[i])
	}
	return p
}
