// Package haml compiles an indentation based shorthand of HTML and Jinja
// into the verbose syntax consumed by the Jinja template engine.
//
// Each line of the source is one node. The first character selects its kind:
//
//	%tag.cls#id(a="1") text   an HTML element ('.' or '#' alone mean a div)
//	-tag data                 a Jinja statement, closed automatically
//	!text                     an HTML comment
//	:javascript               a custom block, its content is copied verbatim
//	|text                     preformatted text, never indented
//	\text                     text starting with a special character
//
// Nesting is expressed by indentation, or inline with a colon:
//
//	-for item in items: %li #{item}
//
// compiles to
//
//	{% for item in items %}
//	  <li>{{ item }}</li>
//	{% endfor %}
package haml

import (
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultExtensions are the file extensions of the documents that a host
// engine should compile before loading them.
var DefaultExtensions = []string{".haml"}

// Options configures a single compilation.
type Options struct {
	// IndentString is repeated once per nesting level in the output
	IndentString string
	// NewlineString separates the output lines
	NewlineString string
	// Continuation at the end of a line joins it with the next one
	Continuation string
	// Comment at the start of a line discards it
	Comment string
	// Filename is used only in error messages
	Filename string

	Logger *zap.SugaredLogger
}

// DefaultOptions returns two spaces of indentation, Unix newlines,
// backslash continuations and ';' comments.
func DefaultOptions() Options {
	return Options{
		IndentString:  "  ",
		NewlineString: "\n",
		Continuation:  `\`,
		Comment:       ";",
	}
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

// Compile parses the source and renders it.
// The returned error is a *SyntaxError or an *IndentationError.
func Compile(source string, opts Options) (string, error) {
	p := NewParser(opts)
	if err := p.Parse(source); err != nil {
		return "", err
	}
	return p.Render(), nil
}

// Render renders the parsed tree with the parser options.
func (p *Parser) Render() string {
	return p.tree.Render(p.opts.IndentString, p.opts.NewlineString)
}

// ShouldCompile reports whether a document with this name has to be compiled,
// based on its extension.
func ShouldCompile(name string, extensions []string) bool {
	if len(name) == 0 {
		return false
	}
	return contains(extensions, filepath.Ext(name))
}
