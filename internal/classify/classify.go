// Package classify turns TeX output into something an agent can act on:
// error and warning lines, located diagnostics, and a single status.
//
// TeX logs are line-oriented but noisy. Lines are matched against a small
// set of patterns that cover the engine's own error marker ("! ..."), the
// context line that follows it ("l.42 ..."), package errors and warnings,
// box badness reports, and the "file:line: message" form produced by
// -file-line-error. A line may count as both an error and a warning.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Status is the outcome of one compile request.
type Status string

const (
	// StatusSuccess means a PDF was produced without warnings.
	StatusSuccess Status = "success"
	// StatusWarning means a PDF was produced but TeX reported warnings.
	StatusWarning Status = "warning"
	// StatusError means TeX stopped on a fatal error.
	StatusError Status = "error"
	// StatusMissingFile means the document or one of its inputs is absent.
	StatusMissingFile Status = "missing_file"
	// StatusTimeout means the compilation exceeded its time limit.
	StatusTimeout Status = "timeout"
	// StatusUnavailable means the requested engine or helper is not installed.
	StatusUnavailable Status = "unavailable"
	// StatusInvalid means the request was rejected before running anything.
	StatusInvalid Status = "invalid"
)

// Succeeded reports whether the status means a PDF was produced.
func (s Status) Succeeded() bool {
	return s == StatusSuccess || s == StatusWarning
}

// Diagnostic is an error located in a source file.
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Report collects what was found in one or more logs.
type Report struct {
	Errors       []string
	Warnings     []string
	Diagnostics  []Diagnostic
	MissingFiles []string
}

var (
	errorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^! .+$`),
		regexp.MustCompile(`^l\.\d+ .+$`),
		regexp.MustCompile(`Error: .+`),
	}
	warningPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Warning: .+`),
		regexp.MustCompile(`(?:Overfull|Underfull) \\[hv]box`),
	}
	// ./main.tex:12: Undefined control sequence.
	fileLinePattern = regexp.MustCompile(`^((?:\.{0,2}/)?[^:\s][^:]*\.[A-Za-z]+):(\d+): (.+)$`)
	missingPatterns = []*regexp.Regexp{
		regexp.MustCompile("File `([^']+)' not found"),
		regexp.MustCompile("I can't find file `([^']+)'"),
	}
)

// Parse scans a compiler log.
func Parse(log string) Report {
	var r Report
	for _, raw := range strings.Split(log, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := fileLinePattern.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			r.Diagnostics = append(r.Diagnostics, Diagnostic{File: m[1], Line: n, Message: m[3]})
			r.Errors = append(r.Errors, trimmed)
		} else if matchAny(errorPatterns, line) {
			r.Errors = append(r.Errors, trimmed)
		}

		if matchAny(warningPatterns, line) {
			r.Warnings = append(r.Warnings, trimmed)
		}

		for _, p := range missingPatterns {
			if m := p.FindStringSubmatch(line); m != nil {
				r.MissingFiles = append(r.MissingFiles, m[1])
				break
			}
		}
	}
	r.dedupe()
	return r
}

// Merge appends another report, keeping first occurrences only.
func (r *Report) Merge(o Report) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
	r.Diagnostics = append(r.Diagnostics, o.Diagnostics...)
	r.MissingFiles = append(r.MissingFiles, o.MissingFiles...)
	r.dedupe()
}

// Classify derives the status of a finished run.
func Classify(exitCode int, timedOut bool, r Report) Status {
	switch {
	case timedOut:
		return StatusTimeout
	case exitCode == 0 && len(r.Warnings) > 0:
		return StatusWarning
	case exitCode == 0:
		return StatusSuccess
	case len(r.MissingFiles) > 0:
		return StatusMissingFile
	default:
		return StatusError
	}
}

func (r *Report) dedupe() {
	r.Errors = uniq(r.Errors)
	r.Warnings = uniq(r.Warnings)
	r.MissingFiles = uniq(r.MissingFiles)

	seen := make(map[Diagnostic]bool, len(r.Diagnostics))
	out := r.Diagnostics[:0]
	for _, d := range r.Diagnostics {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	r.Diagnostics = out
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func matchAny(patterns []*regexp.Regexp, line string) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
