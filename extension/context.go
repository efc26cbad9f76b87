// context.go defines the Context interface for extension access to
// latex-mcp internals.
//
// Separated from extension.go to isolate dependency injection concerns.
// Extensions receive Context during Init(), not at construction, so they
// can register before the service is available.

package extension

import (
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/service"
)

// Context provides extensions controlled access to latex-mcp internals.
type Context interface {
	// Service returns the compilation service.
	Service() service.Service

	// Config returns the configuration currently in effect.
	Config() *config.Config
}

// extContext implements Context.
type extContext struct {
	svc service.Service
}

// NewContext creates a new extension context.
func NewContext(svc service.Service) Context {
	return &extContext{svc: svc}
}

// Service returns the compilation service.
func (c *extContext) Service() service.Service {
	return c.svc
}

// Config returns the service's configuration, which reflects reloads.
func (c *extContext) Config() *config.Config {
	return c.svc.Config()
}
