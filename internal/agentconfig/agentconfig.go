// Package agentconfig produces the mcpServers entry an agent needs to start
// latex-mcp in a container, and merges it into an existing agent
// configuration file.
//
// Agent configuration files are JSON with comments and trailing commas in
// practice (.mcp.json, settings.json). They are read as JSONC; the merged
// file is written back as plain JSON, so comments are not preserved.
package agentconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"
)

const (
	// DefaultImage is the published container image.
	DefaultImage = "sepinetam/latex-mcp"
	// ServerName is the key of the entry under mcpServers.
	ServerName = "latex-mcp"
)

// ErrNotObject is returned when a configuration file, or its mcpServers
// member, is not a JSON object.
var ErrNotObject = errors.New("not a JSON object")

// Server is one mcpServers entry.
type Server struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Config is a configuration containing only the latex-mcp entry.
type Config struct {
	MCPServers map[string]Server `json:"mcpServers"`
}

// Entry returns the docker invocation for image. The host working directory
// is mounted at the same path and used as the container's working directory,
// so paths mean the same thing on both sides.
func Entry(image string) Server {
	if image == "" {
		image = DefaultImage
	}
	return Server{
		Command: "docker",
		Args: []string{
			"run", "-i", "--rm",
			"--mount", "type=bind,src=${PWD},dst=${PWD}",
			"-w", "${PWD}",
			image,
		},
	}
}

// New returns a configuration holding only the latex-mcp entry.
func New(image string) Config {
	return Config{MCPServers: map[string]Server{ServerName: Entry(image)}}
}

// Merge adds the latex-mcp entry to the JSONC document data, keeping every
// other member. replaced reports whether an entry already existed. Empty
// data is treated as an empty object.
func Merge(data []byte, image string) (out []byte, replaced bool, err error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, false, fmt.Errorf("parsing agent config: %w", err)
		}
		if doc == nil {
			return nil, false, fmt.Errorf("agent config: %w", ErrNotObject)
		}
	}

	servers := map[string]any{}
	if v, ok := doc["mcpServers"]; ok && v != nil {
		servers, ok = v.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("agent config mcpServers: %w", ErrNotObject)
		}
	}
	_, replaced = servers[ServerName]
	servers[ServerName] = Entry(image)
	doc["mcpServers"] = servers

	out, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, false, fmt.Errorf("encoding agent config: %w", err)
	}
	return append(out, '\n'), replaced, nil
}

// Options configures Run.
type Options struct {
	Image string // Container image (default DefaultImage)
	Merge string // File to merge into; empty prints the snippet
}

// Result describes what Run did.
type Result struct {
	Config   Config `json:"config"`
	Path     string `json:"path,omitempty"`
	Replaced bool   `json:"replaced,omitempty"`
}

// Run prints the configuration snippet to w, or merges it into
// opts.Merge, creating the file if needed.
func Run(w io.Writer, opts Options) (Result, error) {
	res := Result{Config: New(opts.Image)}

	if opts.Merge == "" {
		data, err := json.MarshalIndent(res.Config, "", "  ")
		if err != nil {
			return res, err
		}
		fmt.Fprintln(w, string(data))
		return res, nil
	}

	mode := fs.FileMode(0644)
	data, err := os.ReadFile(opts.Merge)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return res, fmt.Errorf("reading %s: %w", opts.Merge, err)
	default:
		if info, statErr := os.Stat(opts.Merge); statErr == nil {
			mode = info.Mode().Perm()
		}
	}

	out, replaced, err := Merge(data, opts.Image)
	if err != nil {
		return res, fmt.Errorf("%s: %w", opts.Merge, err)
	}
	if err := os.WriteFile(opts.Merge, out, mode); err != nil {
		return res, fmt.Errorf("writing %s: %w", opts.Merge, err)
	}

	res.Path = opts.Merge
	res.Replaced = replaced
	verb := "Added"
	if replaced {
		verb = "Updated"
	}
	fmt.Fprintf(w, "%s %s in %s\n", verb, ServerName, opts.Merge)
	return res, nil
}
