package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const undefinedLog = `This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)
(./main.tex
LaTeX2e <2022-11-01> patch level 1
./main.tex:5: Undefined control sequence.
l.5 \foo
        
No pages of output.
Transcript written on main.log.
`

const missingPackageLog = `(./main.tex
! LaTeX Error: File ` + "`" + `nosuchpkg.sty' not found.

Type X to quit or <RETURN> to proceed,
`

const warningLog = `(./main.tex
LaTeX Warning: Reference ` + "`" + `fig:a' on page 1 undefined on input line 9.
Package hyperref Warning: Token not allowed in a PDF string on input line 3.
Overfull \hbox (12.3pt too wide) in paragraph at lines 10--11
Underfull \vbox (badness 10000) has occurred while \output is active
Output written on main.pdf (1 page, 12345 bytes).
`

func TestParse_FileLineError(t *testing.T) {
	r := Parse(undefinedLog)

	assert.Equal(t, []string{
		"./main.tex:5: Undefined control sequence.",
		`l.5 \foo`,
	}, r.Errors)
	assert.Equal(t, []Diagnostic{{File: "./main.tex", Line: 5, Message: "Undefined control sequence."}}, r.Diagnostics)
	assert.Empty(t, r.Warnings)
	assert.Empty(t, r.MissingFiles)
}

func TestParse_MissingPackage(t *testing.T) {
	r := Parse(missingPackageLog)

	assert.Equal(t, []string{"! LaTeX Error: File `nosuchpkg.sty' not found."}, r.Errors)
	assert.Equal(t, []string{"nosuchpkg.sty"}, r.MissingFiles)
	assert.Equal(t, StatusMissingFile, Classify(1, false, r))
}

func TestParse_Warnings(t *testing.T) {
	r := Parse(warningLog)

	assert.Empty(t, r.Errors)
	assert.Len(t, r.Warnings, 4)
	assert.Contains(t, r.Warnings[0], "LaTeX Warning: Reference")
	assert.Contains(t, r.Warnings[1], "Package hyperref Warning")
	assert.Equal(t, StatusWarning, Classify(0, false, r))
}

func TestParse_PackageErrorIsError(t *testing.T) {
	r := Parse("! Package babel Error: Unknown option `klingon'.")
	assert.Len(t, r.Errors, 1)
}

func TestParse_ErrorAndWarningOnSameLine(t *testing.T) {
	r := Parse("Class foo Error: bad Warning: also")
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
}

func TestParse_DoesNotTreatProseAsDiagnostic(t *testing.T) {
	r := Parse("Document Class: article 2023/05/17 v1.4n Standard LaTeX document class")
	assert.Empty(t, r.Diagnostics)
	assert.Empty(t, r.Errors)
}

func TestMerge_DeduplicatesInOrder(t *testing.T) {
	a := Parse("LaTeX Warning: one\nLaTeX Warning: two")
	b := Parse("LaTeX Warning: two\nLaTeX Warning: three\nLaTeX Warning: one")

	a.Merge(b)
	assert.Equal(t, []string{"LaTeX Warning: one", "LaTeX Warning: two", "LaTeX Warning: three"}, a.Warnings)
}

func TestMerge_DeduplicatesDiagnostics(t *testing.T) {
	a := Parse(undefinedLog)
	a.Merge(Parse(undefinedLog))
	assert.Len(t, a.Diagnostics, 1)
	assert.Len(t, a.Errors, 2)
}

func TestClassify(t *testing.T) {
	clean := Report{}
	warned := Report{Warnings: []string{"LaTeX Warning: x"}}
	missing := Report{MissingFiles: []string{"a.sty"}}

	tests := []struct {
		name     string
		exit     int
		timedOut bool
		report   Report
		want     Status
	}{
		{"clean success", 0, false, clean, StatusSuccess},
		{"success with warnings", 0, false, warned, StatusWarning},
		{"fatal error", 1, false, clean, StatusError},
		{"missing input", 1, false, missing, StatusMissingFile},
		{"timeout wins", 0, true, warned, StatusTimeout},
		{"killed", -1, true, clean, StatusTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.exit, tc.timedOut, tc.report))
		})
	}
}

func TestStatusSucceeded(t *testing.T) {
	assert.True(t, StatusSuccess.Succeeded())
	assert.True(t, StatusWarning.Succeeded())
	for _, s := range []Status{StatusError, StatusMissingFile, StatusTimeout, StatusUnavailable, StatusInvalid} {
		assert.False(t, s.Succeeded(), s)
	}
}
