package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Default(t *testing.T) {
	content, err := Get("")
	require.NoError(t, err)
	assert.Contains(t, content, "# latex-mcp")
}

func TestGet_Topic(t *testing.T) {
	content, err := Get("compile")
	require.NoError(t, err)
	assert.Contains(t, content, "-file-line-error")
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("nope")
	assert.Error(t, err)
	_, err = Get("../go.mod")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"clean", "compile", "config", "docker", "history", "llm"}, names)
}

func TestGet_NotFoundSentinel(t *testing.T) {
	_, err := Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Compiling", Title("compile"))
	assert.Equal(t, "latex-mcp", Title(""))
	assert.Empty(t, Title("nope"))
}
