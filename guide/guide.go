// Package guide embeds the usage pages served by "latex-mcp guide" and the
// latex_guide tool. Each page is one markdown file; its name is the topic.
package guide

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var files embed.FS

// Main is the topic shown when none is given.
const Main = "guide"

// ErrNotFound is returned for a topic with no page.
var ErrNotFound = errors.New("guide not found")

// Get returns the page for topic, or the main page when topic is empty.
func Get(topic string) (string, error) {
	if topic == "" {
		topic = Main
	}
	if strings.ContainsAny(topic, `/\.`) {
		return "", fmt.Errorf("%w: invalid topic %q", ErrNotFound, topic)
	}
	data, err := files.ReadFile(topic + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, topic)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the topic names other than the main page, sorted.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if name := strings.TrimSuffix(e.Name(), ".md"); name != Main {
			names = append(names, name)
		}
	}
	return names, nil
}

// Title returns the first heading of a topic's page, without the leading
// hashes, or "" if the page has none.
func Title(topic string) string {
	content, err := Get(topic)
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
