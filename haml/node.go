package haml

import (
	"fmt"
	"strconv"
	"strings"
)

// A NodeKind is the variant of a Node.
type NodeKind uint32

const (
	RootNode NodeKind = iota
	EmptyNode
	TextNode
	PreformattedTextNode
	HtmlCommentNode
	HtmlNode
	SelfClosingHtmlNode
	JinjaNode
	SelfClosingJinjaNode
	CustomBlockNode
)

// String returns a string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "Root"
	case EmptyNode:
		return "Empty"
	case TextNode:
		return "Text"
	case PreformattedTextNode:
		return "PreformattedText"
	case HtmlCommentNode:
		return "HtmlComment"
	case HtmlNode:
		return "Html"
	case SelfClosingHtmlNode:
		return "SelfClosingHtml"
	case JinjaNode:
		return "Jinja"
	case SelfClosingJinjaNode:
		return "SelfClosingJinja"
	case CustomBlockNode:
		return "CustomBlock"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// ChildrenAllowed reports whether nodes of this kind may own children.
func (k NodeKind) ChildrenAllowed() bool {
	switch k {
	case RootNode, TextNode, PreformattedTextNode, HtmlNode, JinjaNode, SelfClosingJinjaNode, CustomBlockNode:
		return true
	case EmptyNode, HtmlCommentNode, SelfClosingHtmlNode:
		return false
	}
	return false
}

// IsText reports whether the kind carries a literal string in Data.
func (k NodeKind) IsText() bool {
	return k == TextNode || k == PreformattedTextNode || k == HtmlCommentNode
}

// IsHtml reports whether the kind renders as an HTML element.
func (k NodeKind) IsHtml() bool {
	return k == HtmlNode || k == SelfClosingHtmlNode
}

// IsJinja reports whether the kind renders as a Jinja statement.
func (k NodeKind) IsJinja() bool {
	return k == JinjaNode || k == SelfClosingJinjaNode
}

// A NodeID addresses a node inside its Tree.
type NodeID int

// NoNode is the parent of the root and of detached nodes.
const NoNode NodeID = -1

// An Attribute is an attribute key-value pair of an HTML node.
type Attribute struct {
	Key string
	Val string
}

// Node is one element of the document tree. Which fields are meaningful
// depends on Kind:
//   - text kinds use Data as the literal
//   - HTML kinds use Tag and Attr
//   - Jinja kinds use Tag and Data
//   - custom blocks use BlockType
type Node struct {
	Kind       NodeKind
	Tag        string
	Data       string
	Attr       []Attribute
	BlockType  string
	LineNumber int

	// Inline is set on the text child created from the content that follows
	// a tag on its own line.
	Inline bool

	parent   NodeID
	index    int // position in the parent's children
	children []NodeID
}

// AddAttribute sets an attribute of an HTML node.
// The class attribute accumulates space separated values, any other key
// may be set only once.
func (n *Node) AddAttribute(key, val string) error {
	val = strings.TrimSpace(val)
	for i := range n.Attr {
		if n.Attr[i].Key != key {
			continue
		}
		if key != "class" {
			return fmt.Errorf("attribute %s already defined on node %s", key, n.Tag)
		}
		n.Attr[i].Val = strings.TrimSpace(n.Attr[i].Val + " " + val)
		return nil
	}
	n.Attr = append(n.Attr, Attribute{Key: key, Val: val})
	return nil
}

// Attribute returns the value of the attribute and whether it is set.
func (n *Node) Attribute(key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Tree is an arena holding all the nodes of one document.
// Node 0 is the root. Children are owned by the list in their parent,
// the parent link is only an index back into the arena.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree with just the root node.
func NewTree() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, Node{Kind: RootNode, parent: NoNode})
	return t
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id.
// The pointer is only valid until the next node is created.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// NewNode creates a detached node of the given kind.
func (t *Tree) NewNode(kind NodeKind, lineNumber int) NodeID {
	t.nodes = append(t.nodes, Node{Kind: kind, LineNumber: lineNumber, parent: NoNode})
	return NodeID(len(t.nodes) - 1)
}

// AppendChild adds child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) error {
	p := &t.nodes[parent]
	if !p.Kind.ChildrenAllowed() {
		return fmt.Errorf("%w: cannot add %s to %s", ErrChildrenNotAllowed, t.nodes[child].Kind, p.Kind)
	}
	c := &t.nodes[child]
	if c.parent != NoNode || child == t.Root() {
		return ErrAlreadyAttached
	}
	c.parent = parent
	c.index = len(p.children)
	p.children = append(p.children, child)
	return nil
}

// Parent returns the parent of id, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the children of id, in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// FirstChild returns the first child of id, or NoNode.
func (t *Tree) FirstChild(id NodeID) NodeID {
	if c := t.nodes[id].children; len(c) > 0 {
		return c[0]
	}
	return NoNode
}

// PrevSibling returns the sibling immediately before id, or NoNode.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	n := &t.nodes[id]
	if n.parent == NoNode || n.index == 0 {
		return NoNode
	}
	return t.nodes[n.parent].children[n.index-1]
}

// NextSibling returns the sibling immediately after id, or NoNode.
func (t *Tree) NextSibling(id NodeID) NodeID {
	n := &t.nodes[id]
	if n.parent == NoNode {
		return NoNode
	}
	siblings := t.nodes[n.parent].children
	if n.index+1 >= len(siblings) {
		return NoNode
	}
	return siblings[n.index+1]
}

// HasAncestor reports whether any ancestor of id is of the given kind.
func (t *Tree) HasAncestor(id NodeID, kind NodeKind) bool {
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		if t.nodes[p].Kind == kind {
			return true
		}
	}
	return false
}

// deepestSingleChild follows the chain of first children created by inline
// nesting and returns the innermost node.
func (t *Tree) deepestSingleChild(id NodeID) NodeID {
	for {
		c := t.FirstChild(id)
		if c == NoNode {
			return id
		}
		id = c
	}
}

// String returns a short description of the node, for debugging.
func (t *Tree) String(id NodeID) string {
	n := &t.nodes[id]
	switch {
	case n.Kind.IsHtml(), n.Kind.IsJinja():
		return fmt.Sprintf("<%s %s: %d children>", n.Kind, n.Tag, len(n.children))
	case n.Kind == CustomBlockNode:
		return fmt.Sprintf("<%s %s: %d children>", n.Kind, n.BlockType, len(n.children))
	case n.Kind.IsText():
		return fmt.Sprintf("<%s %q: %d children>", n.Kind, n.Data, len(n.children))
	}
	return fmt.Sprintf("<%s: %d children>", n.Kind, len(n.children))
}
