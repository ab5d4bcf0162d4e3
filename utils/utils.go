// Package utils provides helpers shared by the CLI and the reader UI.
package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/mitchellh/go-homedir"
)

var markdownExtensions = []string{
	".md", ".mdown", ".mkdn", ".mkd", ".markdown",
}

// RemoveFrontmatter removes a leading YAML front matter block.
func RemoveFrontmatter(content []byte) []byte {
	if bounds := detectFrontmatter(content); bounds[0] == 0 {
		return content[bounds[1]:]
	}
	return content
}

var yamlPattern = regexp.MustCompile(`(?m)^---\r?\n(\s*\r?\n)?`)

func detectFrontmatter(c []byte) []int {
	if matches := yamlPattern.FindAllIndex(c, 2); len(matches) > 1 {
		return []int{matches[0][0], matches[1][1]}
	}
	return []int{-1, -1}
}

// ExpandPath expands a leading tilde to the user's home directory.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// IsMarkdownFile reports whether filename looks like markdown. Names
// without an extension, such as stdin or URLs, count as markdown.
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return true
	}
	for _, v := range markdownExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// GlamourStyle returns the glamour option for a style name or JSON path.
func GlamourStyle(style string) glamour.TermRendererOption {
	if style == "" || style == styles.AutoStyle {
		return glamour.WithAutoStyle()
	}
	if _, ok := styles.DefaultStyles[style]; ok {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(ExpandPath(style))
}
