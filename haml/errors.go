package haml

import (
	"errors"
	"fmt"
)

// SyntaxError is returned when a line does not follow the grammar selected
// by its leading character, or when the preprocessor finds an unterminated
// line continuation.
type SyntaxError struct {
	Filename string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return location(e.Filename, e.Line) + e.Msg
}

// IndentationError is returned when a line mixes tabs and spaces in its
// indentation, when an unindent does not match any outer level, or when a
// line is indented below a node that can not have children.
type IndentationError struct {
	Filename string
	Line     int
	Msg      string
}

func (e *IndentationError) Error() string {
	return location(e.Filename, e.Line) + e.Msg
}

func location(filename string, line int) string {
	if len(filename) == 0 {
		return fmt.Sprintf("line %d: ", line)
	}
	return fmt.Sprintf("%s:%d: ", filename, line)
}

var (
	// ErrChildrenNotAllowed is returned when attaching a child to a childless node.
	ErrChildrenNotAllowed = errors.New("child nodes are not allowed on this node")

	// ErrAlreadyAttached is returned when attaching a node which already has a parent.
	ErrAlreadyAttached = errors.New("child already has a parent")
)
