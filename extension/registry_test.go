package extension

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testExtension is a minimal Extension implementation for testing.
type testExtension struct {
	name string
}

func (e testExtension) Name() string               { return e.name }
func (e testExtension) Commands() []*cobra.Command { return nil }
func (e testExtension) MCPTools() []MCPTool        { return nil }

func TestRegister_PanicOnDuplicate(t *testing.T) {
	// Register with a unique name for this test
	name := "test-duplicate-panic"
	Register(testExtension{name: name})

	// Registering the same name again should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration, got none")
		}
	}()

	Register(testExtension{name: name})
}

func TestAll_PreservesOrder(t *testing.T) {
	Register(testExtension{name: "test-order-b"})
	Register(testExtension{name: "test-order-a"})

	var got []string
	for _, e := range All() {
		if e.Name() == "test-order-a" || e.Name() == "test-order-b" {
			got = append(got, e.Name())
		}
	}
	if len(got) != 2 || got[0] != "test-order-b" || got[1] != "test-order-a" {
		t.Errorf("registration order not preserved: %v", got)
	}
	if Get("test-order-a") == nil {
		t.Error("Get returned nil for registered extension")
	}
}

// toolExtension contributes one MCP tool.
type toolExtension struct {
	name, tool string
}

func (e toolExtension) Name() string               { return e.name }
func (e toolExtension) Commands() []*cobra.Command { return nil }
func (e toolExtension) MCPTools() []MCPTool {
	return []MCPTool{{Tool: mcp.NewTool(e.tool)}}
}

func TestTools(t *testing.T) {
	Register(toolExtension{name: "test-tools", tool: "test_tool"})

	tools, err := Tools("latex_compile")
	require.NoError(t, err)
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
	}
	assert.Contains(t, names, "test_tool")

	_, err = Tools("latex_compile", "test_tool")
	assert.ErrorContains(t, err, "test_tool from extension test-tools already registered by server")
}
