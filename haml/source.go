package haml

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hesusruiz/hamlj/sliceedit"
)

// This regex detects the inline variables '#{expr}' that are converted to '{{ expr }}'
var reInlineVariable = regexp.MustCompile(`#\{(.+?)\}`)

const inlineVariableTemplate = "{{ ${1} }}"

// SourceLines splits the source text into logical lines.
// Continued lines are joined into the position of their first physical line,
// followed by empty placeholders, and comment lines are blanked, so the index
// of every logical line is still its physical line number minus one.
func SourceLines(source string, opts Options) ([]string, error) {
	physical := strings.Split(strings.TrimRightFunc(source, unicode.IsSpace), "\n")

	lines := make([]string, 0, len(physical))
	var builder []string

	for _, line := range physical {

		// Remove trailing whitespace
		line = strings.TrimRightFunc(line, unicode.IsSpace)

		line = expandInlineVariables(line)

		switch {

		case len(opts.Comment) > 0 && strings.HasPrefix(strings.TrimSpace(line), opts.Comment):
			// The line is kept but blanked, to keep the numbering
			lines = append(lines, "")

		case len(opts.Continuation) > 0 && strings.HasSuffix(line, opts.Continuation):
			line = strings.TrimSuffix(line, opts.Continuation)

			// The first line keeps its indentation, which gives the level of the joined line
			if len(builder) == 0 {
				line = strings.TrimRightFunc(line, unicode.IsSpace)
			} else {
				line = strings.TrimSpace(line)
			}
			builder = append(builder, line)

		case len(builder) > 0:
			builder = append(builder, strings.TrimSpace(line))
			lines = append(lines, strings.Join(builder, " "))

			// One placeholder for each physical line that was consumed by the join
			for i := 1; i < len(builder); i++ {
				lines = append(lines, "")
			}
			builder = nil

		default:
			lines = append(lines, line)
		}
	}

	if len(builder) > 0 {
		return nil, &SyntaxError{
			Filename: opts.Filename,
			Line:     len(physical),
			Msg:      "unfinished line continuation found",
		}
	}

	return lines, nil
}

// expandInlineVariables rewrites every '#{expr}' in the line as an output expression.
func expandInlineVariables(line string) string {
	if !strings.Contains(line, "#{") {
		return line
	}
	b := sliceedit.NewBuffer([]byte(line))
	if b.ReplaceAllRegexp(reInlineVariable, inlineVariableTemplate) == 0 {
		return line
	}
	return b.String()
}
