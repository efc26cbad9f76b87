// tools_config.go implements MCP tools for configuration management.
//
// Config changes persist to disk and then reload the running service, so
// the next latex_compile uses the new defaults without a server restart.

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/log"
)

// configGet handles latex_config_get tool calls. It reports the values the
// running service uses, including defaults.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.svc.Config()

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:latex_config_get", "list").Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:latex_config_get", "get").Detail("key", key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v (valid keys: %v)", err, config.ValidKeys())), nil
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles latex_config_set tool calls.
func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}

	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	cfg, err := config.Load()
	if err != nil {
		log.Event("mcp:latex_config_set", "set").Detail("key", key).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := cfg.Set(key, value); err != nil {
		log.Event("mcp:latex_config_set", "set").Detail("key", key).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = cfg.Save()

	log.Event("mcp:latex_config_set", "set").Detail("key", key).Detail("value", value).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.svc.ReloadConfig(); err != nil {
		log.Event("mcp:latex_config_set", "reload").Write(err)
		// Saved, but the running server still has the old value
		return mcp.NewToolResultText(fmt.Sprintf("%s = %s (warning: reload failed, restart server to apply: %v)", key, value, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s = %s", key, value)), nil
}
