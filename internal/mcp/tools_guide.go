// tools_guide.go implements latex_guide.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/guide"
	"github.com/sepinetam/latex-mcp/internal/log"
)

// getGuide returns a guide page as markdown. An unknown topic is a tool
// error naming the topics that exist.
func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := getString(req, "topic", "")

	content, err := guide.Get(topic)
	log.Event("mcp:latex_guide", "read").Detail("topic", topic).Write(err)

	if errors.Is(err, guide.ErrNotFound) {
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return mcp.NewToolResultError(fmt.Sprintf("%v. Available topics: %s", err, strings.Join(topics, ", "))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}
