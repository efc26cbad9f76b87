package agentconfig

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	e := Entry("")
	assert.Equal(t, "docker", e.Command)
	assert.Equal(t, []string{
		"run", "-i", "--rm",
		"--mount", "type=bind,src=${PWD},dst=${PWD}",
		"-w", "${PWD}",
		"sepinetam/latex-mcp",
	}, e.Args)

	assert.Equal(t, "example/latex:slim", Entry("example/latex:slim").Args[len(e.Args)-1])
}

func TestMerge_KeepsOtherMembers(t *testing.T) {
	in := []byte(`{
  // project servers
  "mcpServers": {
    "files": {"command": "files-mcp", "args": []},
  },
  "theme": "dark",
}`)

	out, replaced, err := Merge(in, "")
	require.NoError(t, err)
	assert.False(t, replaced)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "dark", doc["theme"])
	servers := doc["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "files")
	assert.Contains(t, servers, ServerName)
}

func TestMerge_Replaces(t *testing.T) {
	in := []byte(`{"mcpServers": {"latex-mcp": {"command": "latex-mcp", "args": ["serve"]}}}`)

	out, replaced, err := Merge(in, "")
	require.NoError(t, err)
	assert.True(t, replaced)

	var doc Config
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "docker", doc.MCPServers[ServerName].Command)
}

func TestMerge_Empty(t *testing.T) {
	out, replaced, err := Merge(nil, "")
	require.NoError(t, err)
	assert.False(t, replaced)

	var doc Config
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, New(""), doc)
}

func TestMerge_Errors(t *testing.T) {
	_, _, err := Merge([]byte(`[1, 2]`), "")
	assert.Error(t, err)

	_, _, err = Merge([]byte(`null`), "")
	assert.ErrorIs(t, err, ErrNotObject)

	_, _, err = Merge([]byte(`{"mcpServers": []}`), "")
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestRun_Print(t *testing.T) {
	var buf bytes.Buffer
	res, err := Run(&buf, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Path)

	var doc Config
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, res.Config, doc)
}

func TestRun_MergeFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".mcp.json")

	var buf bytes.Buffer
	res, err := Run(&buf, Options{Merge: p})
	require.NoError(t, err)
	assert.Equal(t, p, res.Path)
	assert.False(t, res.Replaced)
	assert.Contains(t, buf.String(), "Added latex-mcp in")

	buf.Reset()
	res, err = Run(&buf, Options{Merge: p, Image: "example/latex:slim"})
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Contains(t, buf.String(), "Updated latex-mcp in")

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "example/latex:slim")
}
