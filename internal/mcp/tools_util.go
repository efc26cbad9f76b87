// tools_util.go provides helpers for MCP tool parameter extraction.
//
// Extraction is permissive: a missing or mistyped optional parameter takes
// the caller's default instead of failing the call. Agents often omit
// optional parameters or send "true" where true was meant; the compile
// defaults are a better answer than a type error.

package mcp

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// getString returns a string parameter, or def when it is missing or not a
// string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getBool returns a boolean parameter, or def when it is missing or not a
// JSON boolean.
func getBool(req mcp.CallToolRequest, name string, def bool) bool { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// getInt returns an integer parameter, or def when it is missing or not a
// whole number. JSON numbers decode as float64.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	if v, ok, err := getOptionalInt(req, name); ok && err == nil {
		return v
	}
	return def
}

// getOptionalInt is getInt for parameters whose presence matters: an
// explicit compile_times of 0 is rejected, not replaced by the default.
// A number that is present but fractional or beyond the int range is
// reported as an error rather than truncated.
func getOptionalInt(req mcp.CallToolRequest, name string) (int, bool, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false, nil
	}
	v, ok := args[name].(float64)
	if !ok {
		return 0, false, nil
	}
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, true, fmt.Errorf("%s must be a whole number, got %v", name, v)
	}
	return int(v), true, nil
}

// getStrings returns a string array parameter. Non-string elements are
// skipped; nil means the parameter was absent.
func getStrings(req mcp.CallToolRequest, name string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := args[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// jsonResult returns v as indented JSON text. Indentation costs a few
// tokens and makes the result readable in client logs.
//
// Marshalling errors become tool error results, so every failure reaches
// the agent the same way.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
