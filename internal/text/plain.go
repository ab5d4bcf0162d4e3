// Package text prepares source documents for word-by-word reading.
package text

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Options controls markdown flattening.
type Options struct {
	// SkipCode drops fenced and indented code blocks.
	SkipCode bool
}

// Plain flattens markdown into running text. Blocks are joined by single
// spaces so the result tokenizes without empty words.
func Plain(markdown string, opts Options) string {
	md := goldmark.New()
	reader := gmtext.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var buf strings.Builder
	w := walker{source: reader.Source(), buf: &buf, opts: opts}
	w.walk(doc)

	return Normalize(strings.Join(strings.Fields(buf.String()), " "))
}

// Normalize converts s to Unicode NFC so that a letter and its combining
// marks count as one rune.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Prepare returns the text to load into the reader. Markdown sources are
// flattened; plain sources are only normalized.
func Prepare(src string, markdown bool, opts Options) string {
	if markdown {
		return Plain(src, opts)
	}
	return Normalize(src)
}

type walker struct {
	source []byte
	buf    *strings.Builder
	opts   Options
}

func (w walker) walk(node ast.Node) {
	switch n := node.(type) {
	case *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
		return

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if w.opts.SkipCode {
			return
		}
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.buf.Write(seg.Value(w.source))
		}
		w.buf.WriteByte(' ')
		return

	case *ast.Text:
		w.buf.Write(n.Segment.Value(w.source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			w.buf.WriteByte(' ')
		}
		return

	case *ast.String:
		w.buf.Write(n.Value)
		return

	case *ast.AutoLink:
		w.buf.Write(n.URL(w.source))
		return

	case *ast.Image:
		// Alt text only.
		w.children(n)
		w.buf.WriteByte(' ')
		return
	}

	w.children(node)
	if node.Type() == ast.TypeBlock {
		w.buf.WriteByte(' ')
	}
}

func (w walker) children(node ast.Node) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.walk(c)
	}
}
