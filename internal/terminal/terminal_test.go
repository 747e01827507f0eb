package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/retroenv/retrogolib/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.False(t, IsTerminal(nil))

	file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	assert.False(t, IsTerminal(file))
}

func TestColorize_NoTerminal(t *testing.T) {
	out := NewOutput(&bytes.Buffer{}, true)
	assert.Equal(t, termenv.Ascii, out.Profile)
	assert.Equal(t, "mstrvol", Colorize(out, "mstrvol", Pink))
}
