// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// implement eficient buffered editing of byte slices.
// It requires a single allocation for many operations.
package sliceedit

import (
	"regexp"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed  *edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{
		ed:  edit.NewBuffer(buf),
		buf: buf, // Only for our own queries, never modified
	}
}

// ReplaceAllRegexp queues a replacement for every non-overlapping match of re
// in the original data. The replacement is template after expansion of
// the $1, ${name} references, as in regexp.Regexp.Expand.
// It returns the number of replacements queued.
func (b *Buffer) ReplaceAllRegexp(re *regexp.Regexp, template string) int {
	matches := re.FindAllSubmatchIndex(b.buf, -1)
	for _, m := range matches {
		dst := re.Expand(nil, []byte(template), b.buf, m)
		b.ed.Replace(m[0], m[1], string(dst))
	}
	return len(matches)
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return b.ed.String()
}
