// resources.go implements the MCP resource for reading compiler logs.
//
// latex_compile returns only the tail of the output. The engine's own
// <name>.log in the working directory is complete; latex://logs/{name}
// serves it so a client can pull the whole file into context.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/sepinetam/latex-mcp/internal/path"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyName indicates a log URI without a job name.
	ErrEmptyName = errors.New("empty log name")
)

const logPrefix = "latex://logs/"

// readLog handles latex://logs/{name} resource requests.
func (h *handlers) readLog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI

	name, err := parseLogURI(uri)
	if err != nil {
		return nil, err
	}

	dir, err := h.svc.WorkingDir(h.dir)
	if err != nil {
		return nil, err
	}
	_, abs, err := path.Resolve(dir, name+".log")
	if err != nil {
		return nil, fmt.Errorf("log %q: %w", name, err)
	}

	data, err := os.ReadFile(abs)

	log.Event("mcp:resource", "read").Project(dir).Detail("uri", uri).Write(err)

	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     strings.ToValidUTF8(string(data), "�"),
		},
	}, nil
}

// parseLogURI extracts the job name from latex://logs/{name}. A trailing
// ".log" is accepted and dropped.
func parseLogURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, logPrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	name, err := url.PathUnescape(strings.TrimPrefix(uri, logPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	name = strings.TrimSuffix(name, ".log")
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
