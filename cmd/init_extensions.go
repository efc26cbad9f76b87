/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that loads
// config, discovers the toolchain, and wires up extensions.
//
// Design: Extensions register during init() but aren't initialised until
// first command execution. This two-phase pattern allows extensions to
// declare commands before the service exists. The service is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"sync"

	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/sepinetam/latex-mcp/internal/workspace"
)

// noServiceCommands lists commands that bypass service initialisation.
// Built from bootstrap commands plus extension-declared service-less
// commands.
var noServiceCommands map[string]bool

// buildNoServiceCommands creates the set of commands that skip service
// initialisation.
//
// Bootstrap commands (help, completion) must work whatever state the
// config is in. Extensions declare the rest by implementing
// extension.Serviceless: serve builds its own service, config must be able
// to repair a file that fails to load.
func buildNoServiceCommands() map[string]bool {
	cmds := map[string]bool{
		"help":       true,
		"completion": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Serviceless); ok {
			for _, name := range s.NoServiceCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService service.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions creates the compilation service and injects it into
// extensions. sync.Once guarantees one toolchain discovery per process.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := workspace.New()
		if err != nil {
			initErr = fmt.Errorf("loading config: %w", err)
			return
		}
		extService = svc
		extContext = extension.NewContext(svc)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noServiceCommands = buildNoServiceCommands()
	})
}
