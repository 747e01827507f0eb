// Package patcher overwrites single bytes of a sequence in place.
package patcher

import (
	"errors"
	"fmt"
	"io"
)

// ErrOutOfRange is returned for an address outside of the patched data.
var ErrOutOfRange = errors.New("address out of range")

// Patcher writes single bytes at absolute offsets. It never changes the size
// of the underlying data.
type Patcher struct {
	w    io.WriterAt
	size int64
}

// New returns a patcher for data of the given size.
func New(w io.WriterAt, size int64) *Patcher {
	return &Patcher{
		w:    w,
		size: size,
	}
}

// Patch replaces the byte at address with value.
func (p *Patcher) Patch(address int64, value byte) error {
	if address < 0 || address >= p.size {
		return fmt.Errorf("%w: %04x, size %d", ErrOutOfRange, address, p.size)
	}

	if _, err := p.w.WriteAt([]byte{value}, address); err != nil {
		return fmt.Errorf("writing byte at offset %04x: %w", address, err)
	}
	return nil
}
