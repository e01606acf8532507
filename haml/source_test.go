package haml

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSourceLines(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "No content",
			src:  "",
			want: []string{""},
		},
		{
			name: "Trailing whitespace",
			src:  "%p a  \t\n  %b x \n\n\n",
			want: []string{"%p a", "  %b x"},
		},
		{
			name: "Comments are blanked",
			src:  "%p a\n  ; a comment\n%p b",
			want: []string{"%p a", "", "%p b"},
		},
		{
			name: "Inline variables",
			src:  "%p Hello #{user.name}, #{count} new",
			want: []string{"%p Hello {{ user.name }}, {{ count }} new"},
		},
		{
			name: "Continuation keeps line numbers",
			src:  "  %a(href=\"x\", \\\n      title=\"y\") \\\n    Link\n%p b",
			want: []string{`  %a(href="x", title="y") Link`, "", "", "%p b"},
		},
		{
			name: "Windows newlines",
			src:  "%p a\r\n%p b\r\n",
			want: []string{"%p a", "%p b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SourceLines(tt.src, DefaultOptions())
			if err != nil {
				t.Fatalf("SourceLines() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SourceLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceLinesCustomMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.Continuation = "+"
	opts.Comment = "//"

	got, err := SourceLines("// header\n%p a +\nb\n;not a comment", opts)
	if err != nil {
		t.Fatalf("SourceLines() error = %v", err)
	}
	want := []string{"", "%p a b", "", ";not a comment"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SourceLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceLinesUnfinishedContinuation(t *testing.T) {
	opts := DefaultOptions()
	opts.Filename = "index.haml"

	_, err := SourceLines("%p a \\\n%p b \\", opts)

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("SourceLines() error = %v, want a *SyntaxError", err)
	}
	if se.Line != 2 {
		t.Errorf("SyntaxError.Line = %d, want 2", se.Line)
	}
	if se.Filename != "index.haml" {
		t.Errorf("SyntaxError.Filename = %q, want %q", se.Filename, "index.haml")
	}
}
