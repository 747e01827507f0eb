// Package loader handles sequence file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"
)

// ErrOpen is returned when the sequence file can not be opened for editing.
var ErrOpen = errors.New("opening sequence")

// Sequence is a sequence file opened for reading and in place writing.
type Sequence struct {
	*os.File
	Size int64
}

// Loader handles loading sequence files from disk.
type Loader struct{}

// New creates a new sequence loader.
func New() *Loader {
	return &Loader{}
}

// Load opens the sequence file. The file is opened once for reading and
// writing so offsets captured during decoding stay valid while patching.
// A read only file is opened read only when readOnly is set.
func (l *Loader) Load(path string, readOnly bool) (*Sequence, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}

	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w %s: is a directory", ErrOpen, path)
	}

	return &Sequence{
		File: file,
		Size: info.Size(),
	}, nil
}
