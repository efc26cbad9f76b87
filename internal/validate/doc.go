// Package validate checks compile requests before any process is started.
//
// Arguments reach the TeX engine through exec without a shell, so quoting
// is not a concern. What is checked: file names are present and free of
// null bytes, the pass count is within bounds, extra options look like
// flags, and options that let a document run arbitrary commands
// (-shell-escape and friends) are refused unless configuration allows them.
//
// All validation errors wrap one of the sentinel errors in errors.go; use
// errors.Is to test the category:
//
//	if errors.Is(err, validate.ErrShellEscape) {
//	    // tell the caller to enable compile.allow_shell_escape
//	}
package validate
