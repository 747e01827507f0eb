// Package operand implements the argument readers of the sequence instructions.
// Every reader addresses the byte source explicitly by offset, so readers do not
// share any cursor state between calls.
package operand

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Width is the encoded size and signedness of an argument.
type Width uint8

// Argument widths.
const (
	U8 Width = iota + 1
	U16
	S16
)

// Size returns the number of bytes an argument of this width occupies.
func (w Width) Size() int {
	switch w {
	case U8:
		return 1
	case U16, S16:
		return 2
	default:
		return 0
	}
}

// String returns the width name.
func (w Width) String() string {
	switch w {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case S16:
		return "s16"
	default:
		return "unknown"
	}
}

// Argument is a decoded instruction argument.
type Argument struct {
	Address int64 // offset of the first byte of the argument
	Value   int32
	Width   Width
}

// String returns the argument as hex digits matching its encoded size.
// Signed arguments are printed as their raw two byte encoding.
func (a Argument) String() string {
	if a.Width.Size() == 2 {
		return fmt.Sprintf("%04X", uint16(a.Value))
	}
	return fmt.Sprintf("%02X", uint8(a.Value))
}

// Kind selects the argument reading strategy of an instruction.
type Kind uint8

// Reader kinds, named by the byte layout following the opcode.
const (
	None   Kind = iota // opcode only
	VarLen             // u8, or u16 if the first byte has the high bit set
	ArgU8
	ArgU8x2
	ArgU8U16
	ArgU16
	ArgS16U8
	Opaque // arguments are not decoded
)

// Size returns the total instruction size including the opcode byte,
// or 0 if the size depends on the encoded data.
func (k Kind) Size() int {
	switch k {
	case None:
		return 1
	case ArgU8:
		return 2
	case ArgU8x2, ArgU16:
		return 3
	case ArgU8U16, ArgS16U8:
		return 4
	default:
		return 0
	}
}

// Operands is the result of running a reader.
type Operands struct {
	Args   []Argument
	Length int // instruction length reported by the reader, 0 if it does not know it
}

// ErrUnknownKind is returned for an invalid reader kind.
var ErrUnknownKind = errors.New("unknown operand reader kind")

// Read decodes the arguments of the instruction whose opcode is at address.
// A source that ends inside the instruction returns io.ErrUnexpectedEOF.
func Read(r io.ReaderAt, kind Kind, address int64) (Operands, error) {
	switch kind {
	case None, Opaque:
		return Operands{Length: kind.Size()}, nil
	case VarLen:
		return readVarLen(r, address)
	case ArgU8:
		return readLayout(r, address, U8)
	case ArgU8x2:
		return readLayout(r, address, U8, U8)
	case ArgU8U16:
		return readLayout(r, address, U8, U16)
	case ArgU16:
		return readLayout(r, address, U16)
	case ArgS16U8:
		return readLayout(r, address, S16, U8)
	default:
		return Operands{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// readVarLen reads the variable length argument: a first byte with the high bit
// set starts a two byte argument, otherwise the argument is the single byte.
func readVarLen(r io.ReaderAt, address int64) (Operands, error) {
	first, err := readBytes(r, address+1, 1)
	if err != nil {
		return Operands{}, err
	}
	if first[0]&0x80 == 0 {
		return readLayout(r, address, U8)
	}
	return readLayout(r, address, U16)
}

// readLayout reads consecutive arguments following the opcode. The address of
// every argument is derived from the sizes of the arguments before it.
func readLayout(r io.ReaderAt, address int64, widths ...Width) (Operands, error) {
	size := 0
	for _, w := range widths {
		size += w.Size()
	}

	data, err := readBytes(r, address+1, size)
	if err != nil {
		return Operands{}, err
	}

	ops := Operands{
		Args:   make([]Argument, 0, len(widths)),
		Length: 1 + size,
	}
	pos := 0
	for _, w := range widths {
		arg := Argument{
			Address: address + 1 + int64(pos),
			Width:   w,
		}
		switch w {
		case U8:
			arg.Value = int32(data[pos])
		case U16:
			arg.Value = int32(binary.BigEndian.Uint16(data[pos:]))
		case S16:
			arg.Value = int32(int16(binary.BigEndian.Uint16(data[pos:])))
		}
		ops.Args = append(ops.Args, arg)
		pos += w.Size()
	}
	return ops, nil
}

func readBytes(r io.ReaderAt, offset int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := r.ReadAt(buf, offset)
	if read == n {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("reading %d bytes at offset %04x: %w", n, offset, err)
}
