//go:build !unix

package runner

import "os/exec"

// configureProcessGroup relies on exec.CommandContext's default Kill.
func configureProcessGroup(_ *exec.Cmd) {}
