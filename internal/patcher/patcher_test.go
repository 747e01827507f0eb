package patcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func createTempFile(t *testing.T, data []byte) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.seq")
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file
}

func TestPatch(t *testing.T) {
	file := createTempFile(t, []byte{0xDB, 0x40, 0xFF})
	p := New(file, 3)

	assert.NoError(t, p.Patch(1, 0x7F))

	data, err := os.ReadFile(file.Name())
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x7F, 0xFF}, data)
}

func TestPatch_OutOfRange(t *testing.T) {
	file := createTempFile(t, []byte{0xDB, 0x40, 0xFF})
	p := New(file, 3)

	for _, address := range []int64{-1, 3, 100} {
		err := p.Patch(address, 0x00)
		assert.True(t, errors.Is(err, ErrOutOfRange), "address %d", address)
	}

	info, err := file.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}
