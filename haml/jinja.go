package haml

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// reJinjaTag decomposes a line like '-for x in items: %li= x'
var reJinjaTag = regexp.MustCompile(`^` +
	`-` + // '-' is required
	`(?P<tag>\w+)` + // tag name is required
	`(?P<data>:?\s+.+)?` + // data is optional
	`$`)

// SelfClosingJinjaTags never render an end tag.
var SelfClosingJinjaTags = []string{"break", "continue", "do", "extends", "from", "import", "include", "set"}

// ExtendingJinjaTags maps a tag to the tags that may follow it as siblings
// and continue the same statement, sharing its single end tag.
var ExtendingJinjaTags = map[string][]string{
	"if":    {"else", "elif"},
	"for":   {"else"},
	"elif":  {"elif", "else"},
	"trans": {"pluralize"},
}

// Closers expected for each opening bracket or quote in Jinja data
var jinjaClosers = map[byte]byte{
	'[':  ']',
	'(':  ')',
	'{':  '}',
	'\'': '\'',
	'"':  '"',
}

// parseJinja builds a Jinja node from a line starting with '-'.
func (p *Parser) parseJinja(line string) (NodeID, error) {

	m := reJinjaTag.FindStringSubmatch(line)
	if m == nil {
		return NoNode, fmt.Errorf("text did not match the Jinja tag syntax: %q", line)
	}
	tag := m[reJinjaTag.SubexpIndex("tag")]

	kind := JinjaNode
	if contains(SelfClosingJinjaTags, tag) {
		kind = SelfClosingJinjaNode
	}
	id := p.tree.NewNode(kind, p.lineNumber)
	p.tree.Node(id).Tag = tag

	data := strings.TrimSpace(m[reJinjaTag.SubexpIndex("data")])

	split, err := findNestingColon(data)
	if err != nil {
		return NoNode, err
	}

	if split >= 0 {
		content := strings.TrimSpace(data[split+1:])
		if len(content) == 0 {
			return NoNode, errors.New("illegal nesting of tags: no content after ':'")
		}

		// Everything after the colon is a line on its own, attached as the only child
		child, err := p.parseLine(content)
		if err != nil {
			return NoNode, err
		}
		if err := p.tree.AppendChild(id, child); err != nil {
			return NoNode, err
		}
		data = data[:split]
	}

	p.tree.Node(id).Data = data
	return id, nil
}

// findNestingColon returns the index of the first colon which is not inside
// brackets, braces, parenthesis or quotes, or -1 if there is none.
func findNestingColon(data string) (int, error) {
	var stack []byte

	for i := 0; i < len(data); i++ {
		c := data[i]

		if len(stack) == 0 && c == ':' {
			return i, nil
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]

			if c == top {
				stack = stack[:len(stack)-1]
				continue
			}

			// Inside a string only its closing quote matters
			if top == '\'' || top == '"' {
				continue
			}

			if isJinjaCloser(c) && jinjaClosers[c] == 0 {
				return -1, fmt.Errorf("found unexpected closing character %q", c)
			}
		}

		if closer, ok := jinjaClosers[c]; ok {
			stack = append(stack, closer)
		}
	}

	return -1, nil
}

func isJinjaCloser(c byte) bool {
	return c == ']' || c == ')' || c == '}' || c == '\'' || c == '"'
}

// extends reports whether node id continues the statement of the node prev,
// like an 'else' after an 'if'.
func (t *Tree) extends(id, prev NodeID) bool {
	if id == NoNode || prev == NoNode {
		return false
	}
	n, p := t.Node(id), t.Node(prev)
	if n.Kind != p.Kind || !n.Kind.IsJinja() {
		return false
	}
	return contains(ExtendingJinjaTags[p.Tag], n.Tag)
}

// statementTag returns the tag that opened the chain of extending siblings
// ending at id, which is the one named by the end tag.
func (t *Tree) statementTag(id NodeID) string {
	for {
		prev := t.PrevSibling(id)
		if !t.extends(id, prev) {
			return t.Node(id).Tag
		}
		id = prev
	}
}
