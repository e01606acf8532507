package haml

import (
	"bytes"
	"strings"
)

// CustomBlockTypes holds the start and end text of each custom block type.
var CustomBlockTypes = map[string][2]string{
	"javascript": {`<script type="text/javascript">`, `</script>`},
	"css":        {`<style type="text/css">`, `</style>`},
	"plain":      {"", ""},
}

// ByteRenderer accumulates rendered lines separated by a newline string.
type ByteRenderer struct {
	buf     bytes.Buffer
	newline string
	indent  string
	lines   int
}

// Renderln writes one line, indented to the given level.
func (br *ByteRenderer) Renderln(level int, elems ...string) {
	if br.lines > 0 {
		br.buf.WriteString(br.newline)
	}
	br.lines++
	if level > 0 {
		br.buf.WriteString(strings.Repeat(br.indent, level))
	}
	for _, e := range elems {
		br.buf.WriteString(e)
	}
}

// Bytes returns the rendered lines.
func (br *ByteRenderer) Bytes() []byte {
	return br.buf.Bytes()
}

// Render renders the whole tree with the given indentation and newline strings.
// The root is at level -1, so its children start without indentation.
func (t *Tree) Render(indentString, newlineString string) string {
	br := &ByteRenderer{indent: indentString, newline: newlineString}
	t.renderNode(br, t.Root(), -1)
	return string(br.Bytes())
}

// renderNode renders recursively a node and its children, depth-first
func (t *Tree) renderNode(br *ByteRenderer, id NodeID, level int) {
	n := t.Node(id)

	indent := level
	if n.Kind == PreformattedTextNode {
		indent = 0
	}

	// An element with just its inline text fits in a single line
	if text, ok := t.inlineText(id); ok {
		start, _ := t.renderStart(id)
		end, _ := t.renderEnd(id)
		br.Renderln(indent, start, text, end)
		return
	}

	if start, ok := t.renderStart(id); ok {
		br.Renderln(indent, start)
	}

	for _, child := range n.children {
		t.renderNode(br, child, level+1)
	}

	if end, ok := t.renderEnd(id); ok {
		br.Renderln(indent, end)
	}
}

// inlineText returns the text of an HTML element whose only child is the
// text written after the tag on the same line.
func (t *Tree) inlineText(id NodeID) (string, bool) {
	n := t.Node(id)
	if n.Kind != HtmlNode || len(n.children) != 1 {
		return "", false
	}
	c := t.Node(n.children[0])
	if c.Kind != TextNode || !c.Inline || len(c.children) > 0 {
		return "", false
	}
	return c.Data, true
}

// renderStart returns the opening text of a node, if it has one.
func (t *Tree) renderStart(id NodeID) (string, bool) {
	n := t.Node(id)

	switch n.Kind {

	case RootNode, EmptyNode:
		return "", false

	case TextNode:
		return n.Data, true

	case PreformattedTextNode:
		// The first child of an element is already rendered in the start tag
		if parent := n.parent; parent != NoNode && t.Node(parent).Kind.IsHtml() && t.PrevSibling(id) == NoNode {
			return "", false
		}
		return n.Data, true

	case HtmlCommentNode:
		return "<!-- " + strings.TrimSpace(n.Data) + " -->", true

	case HtmlNode:
		start := "<" + tagString(n) + ">"
		if first := t.FirstChild(id); first != NoNode && t.Node(first).Kind == PreformattedTextNode {
			start += t.Node(first).Data
		}
		return start, true

	case SelfClosingHtmlNode:
		return "<" + tagString(n) + " />", true

	case JinjaNode, SelfClosingJinjaNode:
		return "{% " + strings.TrimSpace(n.Tag+" "+n.Data) + " %}", true

	case CustomBlockNode:
		start := CustomBlockTypes[n.BlockType][0]
		return start, len(start) > 0

	}
	return "", false
}

// renderEnd returns the closing text of a node, if it has one.
func (t *Tree) renderEnd(id NodeID) (string, bool) {
	n := t.Node(id)

	switch n.Kind {

	case HtmlNode:
		return "</" + n.Tag + ">", true

	case JinjaNode:
		// The statement continues in the next sibling, which will close it
		if t.extends(t.NextSibling(id), id) {
			return "", false
		}
		return "{% end" + t.statementTag(id) + " %}", true

	case CustomBlockNode:
		end := CustomBlockTypes[n.BlockType][1]
		return end, len(end) > 0

	case RootNode, EmptyNode, TextNode, PreformattedTextNode, HtmlCommentNode, SelfClosingHtmlNode, SelfClosingJinjaNode:
		return "", false

	}
	return "", false
}

// tagString returns the tag name followed by its attributes: 'a href="x"'.
func tagString(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Tag)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(a.Val)
		sb.WriteByte('"')
	}
	return sb.String()
}
