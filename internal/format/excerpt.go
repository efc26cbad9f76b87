package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/sepinetam/latex-mcp/internal/classify"
	"github.com/sepinetam/latex-mcp/internal/path"
)

// excerptLines is the number of source lines shown either side of a
// diagnostic.
const excerptLines = 2

// Excerpt prints the source lines around a diagnostic, with the offending
// line marked. The file is resolved against dir and must lie inside it.
func Excerpt(w io.Writer, dir string, d classify.Diagnostic, colour bool) error {
	_, abs, err := path.Resolve(dir, d.File)
	if err != nil {
		return err
	}
	f, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer f.Close()

	first := max(1, d.Line-excerptLines)
	last := d.Line + excerptLines

	var src []string
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan() && n <= last; n++ {
		if n >= first {
			src = append(src, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if len(src) == 0 {
		return fmt.Errorf("line %d beyond end of file", d.Line)
	}

	if colour {
		var b strings.Builder
		if err := quick.Highlight(&b, strings.Join(src, "\n")+"\n", "latex", "terminal256", "monokai"); err == nil {
			src = strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
		}
	}

	for i, line := range src {
		n := first + i
		marker := " "
		if n == d.Line {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %4d | %s\n", marker, n, line)
	}
	return nil
}
