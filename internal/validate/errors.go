// errors.go defines sentinel errors for validation failures.
//
// Sentinel errors (not error types) because validation failures don't
// carry context beyond the category. Detailed messages come from wrapping
// these with fmt.Errorf in the validation functions.

package validate

import "errors"

var (
	ErrInvalidTexFile = errors.New("invalid tex file")
	ErrInvalidPasses  = errors.New("invalid compile_times")
	ErrInvalidOption  = errors.New("invalid compiler option")
	ErrShellEscape    = errors.New("shell escape is disabled")
)
