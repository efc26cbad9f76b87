package diff

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		old     string
		new     string
		wantErr string
	}{
		{name: "ids", input: "12:15", old: "12", new: "15"},
		{name: "run ids", input: "a1b2:c3d4", old: "a1b2", new: "c3d4"},
		{name: "spaces trimmed", input: " 1 : 2 ", old: "1", new: "2"},
		{name: "empty side", input: "3:", wantErr: "both runs required"},
		{name: "no colon", input: "3", wantErr: "expected old:new"},
		{name: "too many parts", input: "1:2:3", wantErr: "expected old:new"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, n, err := ParseRange(tc.input)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.old, o)
			assert.Equal(t, tc.new, n)
		})
	}
}

func TestCompute(t *testing.T) {
	oldLog := "This is pdfTeX\n./main.tex:3: Undefined control sequence.\nl.3 \\foo\n"
	newLog := "This is pdfTeX\nOutput written on main.pdf (1 page).\n"

	r := Compute(oldLog, newLog, "run 1", "run 2")

	assert.Equal(t, 2, r.Removed)
	assert.Equal(t, 1, r.Added)
	assert.Contains(t, r.Diff, "  This is pdfTeX\n")
	assert.Contains(t, r.Diff, "- ./main.tex:3: Undefined control sequence.\n")
	assert.Contains(t, r.Diff, "+ Output written on main.pdf (1 page).\n")
}

func TestCompute_WholeLines(t *testing.T) {
	r := Compute("Overfull \\hbox (3.0pt too wide)\n", "Overfull \\hbox (4.5pt too wide)\n", "a", "b")
	assert.Equal(t, "- Overfull \\hbox (3.0pt too wide)\n+ Overfull \\hbox (4.5pt too wide)\n", r.Diff)
}

func TestCompute_CollapsesContext(t *testing.T) {
	var same []string
	for i := range 10 {
		same = append(same, "line "+string(rune('a'+i)))
	}
	body := strings.Join(same, "\n") + "\n"
	r := Compute(body+"old\n", body+"new\n", "a", "b")

	assert.Contains(t, r.Diff, "  ...\n")
	assert.NotContains(t, r.Diff, "line e")
	assert.Contains(t, r.Diff, "  line j\n")
}

func TestColourise(t *testing.T) {
	got := Colourise("- gone\n+ added\n  same\n")
	assert.Contains(t, got, "\033[31m- gone\033[0m")
	assert.Contains(t, got, "\033[32m+ added\033[0m")
	assert.Contains(t, got, "  same\n")
}

func TestRun(t *testing.T) {
	logs := map[string]string{"1": "a\nb\n", "2": "a\nc\n"}
	src := SourceFunc(func(_ context.Context, ref string) (string, error) {
		s, ok := logs[ref]
		if !ok {
			return "", errors.New("not found")
		}
		return s, nil
	})

	var buf bytes.Buffer
	r, err := Run(context.Background(), &buf, src, "1", "2", false)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Added)
	assert.True(t, strings.HasPrefix(buf.String(), "--- 1\n+++ 2\n"))

	_, err = Run(context.Background(), &buf, src, "1", "9", false)
	assert.Error(t, err)
}
