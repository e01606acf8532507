package main

import (
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"
)

// highlight writes the compiled template to w with terminal colors.
// The output mixes HTML and Jinja, which is what the Django lexer understands.
func highlight(w io.Writer, source string, styleName string) error {

	// Determine lexer.
	l := lexers.Get("django")
	if l == nil {
		l = lexers.Analyse(source)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	// Unknown style names get the chroma fallback style
	s := styles.Get(styleName)

	f := formatters.Get("terminal256")
	if f == nil {
		f = formatters.Fallback
	}

	it, err := l.Tokenise(nil, source)
	if err != nil {
		return err
	}

	return f.Format(w, s, it)
}

// isTerminal reports whether f is a terminal that can show colors
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
