package haml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestShouldCompile(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		want       bool
	}{
		{name: "index.haml", extensions: DefaultExtensions, want: true},
		{name: "templates/base.haml", extensions: DefaultExtensions, want: true},
		{name: "index.html", extensions: DefaultExtensions, want: false},
		{name: "index.HAML", extensions: DefaultExtensions, want: false},
		{name: "haml", extensions: DefaultExtensions, want: false},
		{name: "", extensions: DefaultExtensions, want: false},
		{name: "page.jhaml", extensions: []string{".haml", ".jhaml"}, want: true},
		{name: "page.haml", extensions: nil, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldCompile(tt.name, tt.extensions), tt.name)
	}
}

func TestCompileLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	opts := DefaultOptions()
	opts.Filename = "index.haml"
	opts.Logger = zap.New(core).Sugar()

	_, err := Compile("%p a\n%p b", opts)
	require.NoError(t, err)

	entries := logs.FilterMessage("parsed document").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "index.haml", fields["file"])
	assert.EqualValues(t, 2, fields["lines"])
}

func TestCompileWithoutLogger(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = nil

	got, err := Compile("%p a", opts)
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", got)
}
