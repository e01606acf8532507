package haml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		indentation bool
		line        int
	}{
		{name: "Mixed tabs and spaces", src: "%div\n\t %p x", indentation: true, line: 2},
		{name: "Unindent without outer level", src: "%div\n    %p a\n  %p b", indentation: true, line: 3},
		{name: "Child of self closing tag", src: "%div\n  %br\n    %p x", indentation: true, line: 3},
		{name: "Child of comment", src: "!note\n  text", indentation: true, line: 2},
		{name: "Child of nested self closing", src: "%p: %img(src=\"a\")\n  text", indentation: true, line: 2},
		{name: "Content on self closing tag", src: "%p a\n%br hello", line: 2},
		{name: "Unknown custom block", src: "%p a\n\n:ruby", line: 3},
		{name: "Bad HTML line", src: "%", line: 1},
		{name: "Bad Jinja line", src: "%p\n  - x", line: 2},
		{name: "Jinja nesting without content", src: "-if x:", line: 1},
		{name: "Jinja nesting without content before a body", src: "%p a\n-for x in y:\n  %p b", line: 2},
		{name: "Unfinished continuation", src: "%p a \\\n%p b \\", line: 2},
		{name: "Line numbers after continuation", src: "%div \\\n  .x\n%p\n\t x", indentation: true, line: 4},
		{name: "Line numbers after comments", src: "; one\n; two\n%p(a=\"x)", line: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, DefaultOptions())
			require.Error(t, err)

			if tt.indentation {
				var ie *IndentationError
				require.ErrorAs(t, err, &ie)
				assert.Equal(t, tt.line, ie.Line)
			} else {
				var se *SyntaxError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.line, se.Line)
			}
		})
	}
}

func TestParseFromBytes(t *testing.T) {
	p, err := ParseFromBytes("index.haml", []byte("%ul\n  %li a\n  %li b\n"))
	require.NoError(t, err)

	tree := p.Tree()
	ul := tree.FirstChild(tree.Root())
	require.NotEqual(t, NoNode, ul)
	assert.Len(t, tree.Children(ul), 2)

	_, err = ParseFromBytes("index.haml", []byte("%br hello"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "index.haml:1: "), err.Error())
}

// Each line is attached to the node opened by the closest less indented line,
// and the levels kept in the stack are strictly increasing.
func TestParseIndentStack(t *testing.T) {
	src := strings.Join([]string{
		"%html",
		"  %body",
		"    .a",
		"        %p deep",
		"    .b",
		"",
		"  %footer",
		"%script",
	}, "\n")

	p := NewParser(DefaultOptions())
	lines, err := SourceLines(src, p.opts)
	require.NoError(t, err)

	for i, line := range lines {
		p.lineNumber = i + 1
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		require.NoError(t, p.parseIndentedLine(line))

		require.Equal(t, len(p.indentStack), len(p.nodeStack))
		for j := 1; j < len(p.indentStack); j++ {
			assert.Less(t, p.indentStack[j-1], p.indentStack[j], "line %d", i+1)
		}
	}

	tree := p.Tree()
	top := tree.Children(tree.Root())
	require.Len(t, top, 2)
	assert.Equal(t, "html", tree.Node(top[0]).Tag)
	assert.Equal(t, "script", tree.Node(top[1]).Tag)

	body := tree.Children(top[0])
	require.Len(t, body, 2)
	assert.Equal(t, "body", tree.Node(body[0]).Tag)
	assert.Equal(t, "footer", tree.Node(body[1]).Tag)

	divs := tree.Children(body[0])
	require.Len(t, divs, 2)
	assert.Len(t, tree.Children(divs[0]), 1)
	assert.Len(t, tree.Children(divs[1]), 0)
}

func TestParseNestedLineOpensInnermostNode(t *testing.T) {
	p := NewParser(DefaultOptions())
	require.NoError(t, p.Parse("%ul: %li\n  %p x"))

	tree := p.Tree()
	ul := tree.FirstChild(tree.Root())
	li := tree.FirstChild(ul)
	require.Len(t, tree.Children(ul), 1)
	require.Len(t, tree.Children(li), 1)
	assert.Equal(t, "p", tree.Node(tree.FirstChild(li)).Tag)
}

func TestParseCustomBlockCapturesEverything(t *testing.T) {
	p := NewParser(DefaultOptions())
	require.NoError(t, p.Parse(":javascript\n  %p not a tag\n    -if not jinja\n  :css"))

	tree := p.Tree()
	block := tree.FirstChild(tree.Root())
	require.Equal(t, CustomBlockNode, tree.Node(block).Kind)

	children := tree.Children(block)
	require.Len(t, children, 2)
	for _, c := range children {
		assert.Equal(t, TextNode, tree.Node(c).Kind)
	}
	assert.Equal(t, "%p not a tag", tree.Node(children[0]).Data)
	assert.Equal(t, ":css", tree.Node(children[1]).Data)

	nested := tree.FirstChild(children[0])
	require.NotEqual(t, NoNode, nested)
	assert.Equal(t, TextNode, tree.Node(nested).Kind)
	assert.Equal(t, "-if not jinja", tree.Node(nested).Data)
}

func TestIndentation(t *testing.T) {
	tests := []struct {
		line    string
		want    int
		wantErr bool
	}{
		{line: "%p", want: 0},
		{line: "    %p", want: 4},
		{line: "\t\t%p", want: 2},
		{line: " \t%p", wantErr: true},
		{line: "\t %p", wantErr: true},
	}
	for _, tt := range tests {
		got, err := indentation(tt.line)
		if tt.wantErr {
			assert.Error(t, err, tt.line)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestParseChildlessParentMessage(t *testing.T) {
	_, err := Compile("!note\n  text", DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, `line 2: node <HtmlComment "note": 0 children> cannot have children`, err.Error())
}
