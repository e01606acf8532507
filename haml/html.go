package haml

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	htmlTagPrefix = '%'
	classPrefix   = '.'
	idPrefix      = '#'
)

// reHtmlTag decomposes a line like '%tag.cls#id(a="1", b="2"): content'
var reHtmlTag = regexp.MustCompile(`^` +
	`%` + // '%' is required
	`(?P<tag>\w+)` + // tag name is required
	`(?P<shortcut>[\.#][^()]+?)?` + // '.cls1.cls2#id' is optional
	`(?P<attrs>\(.+\))?` + // '(a="1", b="2")' is optional
	`(?P<nested>:)?` + // nesting is optional
	`(?P<content>\s+.+)?` + // inline content is optional
	`$`)

// reAttrPair splits an attribute list by commas, but not the commas inside quotes
var reAttrPair = regexp.MustCompile(`(?:[^,"]|"[^"]*")+`)

// SelfClosingHtmlTags can never have children and never render an end tag.
var SelfClosingHtmlTags = []string{"br", "hr", "img", "input", "link", "meta"}

// parseHtml builds an HTML node from a line starting with '%', '.' or '#'.
func (p *Parser) parseHtml(line string) (NodeID, error) {

	// The '%' can be omitted if the line starts with a class or id, meaning a div
	if line[0] == classPrefix || line[0] == idPrefix {
		line = "%div" + line
	}

	m := reHtmlTag.FindStringSubmatch(line)
	if m == nil {
		return NoNode, fmt.Errorf("text did not match the HTML tag syntax: %q", line)
	}
	tag := m[reHtmlTag.SubexpIndex("tag")]

	kind := HtmlNode
	if contains(SelfClosingHtmlTags, tag) {
		kind = SelfClosingHtmlNode
	}
	id := p.tree.NewNode(kind, p.lineNumber)
	n := p.tree.Node(id)
	n.Tag = tag

	// Shortcut attributes, applied left to right
	if shortcut := m[reHtmlTag.SubexpIndex("shortcut")]; len(shortcut) > 0 {
		for _, sc := range splitShortcuts(shortcut) {
			key := "class"
			if sc[0] == idPrefix {
				key = "id"
			}
			if err := n.AddAttribute(key, sc[1:]); err != nil {
				return NoNode, err
			}
		}
	}

	// Regular attributes between parenthesis
	if attrs := m[reHtmlTag.SubexpIndex("attrs")]; len(attrs) > 0 {
		pairs, err := splitAttributes(attrs[1 : len(attrs)-1])
		if err != nil {
			return NoNode, err
		}
		for _, pair := range pairs {
			if err := n.AddAttribute(pair.Key, pair.Val); err != nil {
				return NoNode, err
			}
		}
	}

	nested := len(m[reHtmlTag.SubexpIndex("nested")]) > 0
	content := strings.TrimSpace(m[reHtmlTag.SubexpIndex("content")])

	if nested {
		if len(content) == 0 {
			return NoNode, errors.New("illegal nesting of tags: no content after ':'")
		}

		// The content is a line on its own, attached as the only child
		child, err := p.parseLine(content)
		if err != nil {
			return NoNode, err
		}
		if err := p.tree.AppendChild(id, child); err != nil {
			return NoNode, err
		}
		return id, nil
	}

	if len(content) > 0 {
		if !kind.ChildrenAllowed() {
			return NoNode, fmt.Errorf("inline content (%q) not permitted on node %s", content, tag)
		}
		text := p.tree.NewNode(TextNode, p.lineNumber)
		p.tree.Node(text).Data = content
		p.tree.Node(text).Inline = true
		if err := p.tree.AppendChild(id, text); err != nil {
			return NoNode, err
		}
	}

	return id, nil
}

// splitShortcuts splits '.a.b#c' into '.a', '.b' and '#c'.
func splitShortcuts(s string) []string {
	var parts []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == classPrefix || s[i] == idPrefix {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	return append(parts, s[start:])
}

// splitAttributes parses the inside of an attribute list: 'a="1", b="x, y"'.
func splitAttributes(s string) ([]Attribute, error) {
	var attrs []Attribute

	for _, pair := range reAttrPair.FindAllString(s, -1) {
		if strings.Count(pair, `"`) != 2 {
			return nil, errors.New("mismatched quotes (or missing comma) in attributes")
		}

		key, val, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("attribute without value: %q", strings.TrimSpace(pair))
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if len(key) == 0 || len(val) < 2 || val[0] != '"' || val[len(val)-1] != '"' {
			return nil, fmt.Errorf("malformed attribute: %q", strings.TrimSpace(pair))
		}

		attrs = append(attrs, Attribute{Key: key, Val: val[1 : len(val)-1]})
	}

	return attrs, nil
}

func contains(set []string, name string) bool {
	for _, el := range set {
		if name == el {
			return true
		}
	}
	return false
}
