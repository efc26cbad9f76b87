// registry.go holds the process-wide list of extensions.
//
// Extensions register from init(), before main() runs, so a duplicate name
// is a build mistake rather than a runtime condition and panics, the way
// database/sql.Register does. Registration order is kept so commands and
// tools are listed the same way on every run.

package extension

import (
	"fmt"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string
)

// Register adds an extension. It panics if the name is already taken.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}
	registry[name] = e
	order = append(order, name)
}

// All returns the registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Get returns the extension registered under name, or nil.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Tools returns the MCP tools of every extension in registration order.
// reserved holds tool names the server registers itself; an extension
// tool that reuses one of them, or another extension's, is an error.
func Tools(reserved ...string) ([]MCPTool, error) {
	owner := make(map[string]string, len(reserved))
	for _, name := range reserved {
		owner[name] = "server"
	}

	var tools []MCPTool
	for _, ext := range All() {
		for _, t := range ext.MCPTools() {
			if prev, ok := owner[t.Tool.Name]; ok {
				return nil, fmt.Errorf("tool %s from extension %s already registered by %s", t.Tool.Name, ext.Name(), prev)
			}
			owner[t.Tool.Name] = ext.Name()
			tools = append(tools, t)
		}
	}
	return tools, nil
}
