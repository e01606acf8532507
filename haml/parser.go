package haml

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	htmlCommentPrefix  = '!'
	jinjaTagPrefix     = '-'
	customBlockPrefix  = ':'
	preformattedPrefix = '|'
	escapePrefix       = '\\'
)

// A lineParser turns a stripped line into a detached node of the tree.
type lineParser func(p *Parser, line string) (NodeID, error)

// lineParsers dispatches on the first character of a line.
// Lines starting with any other character are plain text.
var lineParsers map[byte]lineParser

func init() {
	lineParsers = map[byte]lineParser{
		htmlTagPrefix:      (*Parser).parseHtml,
		classPrefix:        (*Parser).parseHtml,
		idPrefix:           (*Parser).parseHtml,
		htmlCommentPrefix:  (*Parser).parseHtmlComment,
		jinjaTagPrefix:     (*Parser).parseJinja,
		customBlockPrefix:  (*Parser).parseCustomBlock,
		preformattedPrefix: (*Parser).parsePreformatted,
		escapePrefix:       (*Parser).parseEscaped,
	}
}

// Parser builds the tree of nodes of one document.
type Parser struct {
	// the name of the file being processed, for error messages
	fileName string

	opts Options

	// tree holds all the nodes, the root is the document itself
	tree *Tree

	// indentStack holds the indentation of the open levels, strictly increasing,
	// and nodeStack the node open at each level
	indentStack []int
	nodeStack   []NodeID

	// lineNumber is the physical line being processed, starting at 1
	lineNumber int

	log *zap.SugaredLogger
}

// NewParser creates a parser with an empty tree.
func NewParser(opts Options) *Parser {
	p := &Parser{
		fileName: opts.Filename,
		opts:     opts,
		tree:     NewTree(),
		log:      opts.logger(),
	}
	p.indentStack = []int{-1}
	p.nodeStack = []NodeID{p.tree.Root()}
	return p
}

// ParseFromBytes parses a source document with the default options.
// fileName is for error messages only.
func ParseFromBytes(fileName string, src []byte) (*Parser, error) {
	opts := DefaultOptions()
	opts.Filename = fileName

	p := NewParser(opts)
	if err := p.Parse(string(src)); err != nil {
		return nil, err
	}
	return p, nil
}

// Tree returns the tree built by Parse.
func (p *Parser) Tree() *Tree {
	return p.tree
}

// Parse reads the whole source and builds the tree.
// The first error stops the parsing.
func (p *Parser) Parse(source string) error {

	lines, err := SourceLines(source, p.opts)
	if err != nil {
		return err
	}

	for i, line := range lines {
		p.lineNumber = i + 1

		// Blank lines do not affect the structure
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		if err := p.parseIndentedLine(line); err != nil {
			return err
		}
	}

	p.log.Debugw("parsed document", "file", p.fileName, "lines", len(lines), "nodes", p.tree.Len())
	return nil
}

// parseIndentedLine moves the indent stack to the level of the line and
// attaches the node of the line to the parent at that level.
func (p *Parser) parseIndentedLine(line string) error {

	indent, err := indentation(line)
	if err != nil {
		return p.indentationError(err.Error())
	}

	if indent > p.top() {
		// A new level, whose parent is the node of the previous line
		p.indentStack = append(p.indentStack, indent)
	} else {
		for indent < p.top() {
			p.indentStack = p.indentStack[:len(p.indentStack)-1]
			p.nodeStack = p.nodeStack[:len(p.nodeStack)-1]
		}

		// Close the sibling at this level
		p.nodeStack = p.nodeStack[:len(p.nodeStack)-1]
	}

	if indent != p.top() {
		return p.indentationError("unindent does not match any outer indentation level")
	}

	parent := p.nodeStack[len(p.nodeStack)-1]

	var node NodeID

	// Everything inside a custom block is captured as it is
	if p.tree.Node(parent).Kind == CustomBlockNode || p.tree.HasAncestor(parent, CustomBlockNode) {
		node = p.tree.NewNode(TextNode, p.lineNumber)
		p.tree.Node(node).Data = strings.TrimSpace(line)
	} else {
		node, err = p.parseLine(strings.TrimSpace(line))
		if err != nil {
			return p.syntaxError(err.Error())
		}
	}

	if !p.tree.Node(parent).Kind.ChildrenAllowed() {
		return p.indentationError(fmt.Sprintf("node %s cannot have children", p.tree.String(parent)))
	}
	if err := p.tree.AppendChild(parent, node); err != nil {
		return p.indentationError(err.Error())
	}

	// Lines nested with ':' continue at their innermost node
	p.nodeStack = append(p.nodeStack, p.tree.deepestSingleChild(node))

	return nil
}

func (p *Parser) top() int {
	return p.indentStack[len(p.indentStack)-1]
}

// parseLine classifies a stripped line and builds its node.
// It does not care about indentation.
func (p *Parser) parseLine(line string) (NodeID, error) {
	if len(line) == 0 {
		return p.tree.NewNode(EmptyNode, p.lineNumber), nil
	}
	if parse, ok := lineParsers[line[0]]; ok {
		return parse(p, line)
	}
	return p.newText(TextNode, line), nil
}

func (p *Parser) parseHtmlComment(line string) (NodeID, error) {
	return p.newText(HtmlCommentNode, line[1:]), nil
}

func (p *Parser) parsePreformatted(line string) (NodeID, error) {
	return p.newText(PreformattedTextNode, line[1:]), nil
}

func (p *Parser) parseEscaped(line string) (NodeID, error) {
	return p.newText(TextNode, line[1:]), nil
}

func (p *Parser) parseCustomBlock(line string) (NodeID, error) {
	blockType := line[1:]
	if _, ok := CustomBlockTypes[blockType]; !ok {
		return NoNode, fmt.Errorf("unknown custom block type: %q", blockType)
	}
	id := p.tree.NewNode(CustomBlockNode, p.lineNumber)
	p.tree.Node(id).BlockType = blockType
	return id, nil
}

func (p *Parser) newText(kind NodeKind, data string) NodeID {
	id := p.tree.NewNode(kind, p.lineNumber)
	p.tree.Node(id).Data = data
	return id
}

// indentation returns the width of the leading whitespace of the line.
func indentation(line string) (int, error) {
	ws := len(line) - len(strings.TrimLeftFunc(line, isIndentSpace))
	lead := line[:ws]
	if strings.ContainsRune(lead, ' ') && strings.ContainsRune(lead, '\t') {
		return 0, fmt.Errorf("you cannot mix tabs and spaces in indentation")
	}
	return ws, nil
}

func isIndentSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v' || r == '\r'
}

func (p *Parser) syntaxError(msg string) error {
	return &SyntaxError{Filename: p.fileName, Line: p.lineNumber, Msg: msg}
}

func (p *Parser) indentationError(msg string) error {
	return &IndentationError{Filename: p.fileName, Line: p.lineNumber, Msg: msg}
}
