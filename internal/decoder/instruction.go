package decoder

import (
	"fmt"
	"strings"

	"github.com/retroenv/seqvol/internal/opcode"
	"github.com/retroenv/seqvol/internal/operand"
)

// nameWidth is the column width of the instruction name in a record.
const nameWidth = 16

// Instruction is a decoded instruction of the stream.
type Instruction struct {
	Address    int64
	Opcode     byte
	Descriptor *opcode.Descriptor
	Args       []operand.Argument
	Advance    int // bytes the cursor moved past this instruction
}

// Name returns the instruction name.
func (i Instruction) Name() string {
	if i.Descriptor == nil {
		return ""
	}
	return i.Descriptor.Name
}

// Tag returns the display tag of the instruction.
func (i Instruction) Tag() opcode.Tag {
	if i.Descriptor == nil {
		return opcode.NoTag
	}
	return i.Descriptor.Tag
}

// Arg returns the argument at index n.
func (i Instruction) Arg(n int) (operand.Argument, bool) {
	if n < 0 || n >= len(i.Args) {
		return operand.Argument{}, false
	}
	return i.Args[n], true
}

// ArgumentAddresses returns the offsets of the first byte of every argument.
func (i Instruction) ArgumentAddresses() []int64 {
	addresses := make([]int64, 0, len(i.Args))
	for _, arg := range i.Args {
		addresses = append(addresses, arg.Address)
	}
	return addresses
}

// String returns the address, opcode and argument bytes, for example "@0000: DB 40".
func (i Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%04X: %02X", i.Address, i.Opcode)
	for _, arg := range i.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}

	// opaque instructions show their undecoded bytes as placeholders
	if i.Descriptor != nil && i.Descriptor.Reader == operand.Opaque {
		for range i.Advance - 1 {
			sb.WriteString(" ??")
		}
	}
	return sb.String()
}

// Record returns the listing line of the instruction with the name column.
func (i Instruction) Record() string {
	return fmt.Sprintf("%-*s%s", nameWidth, i.Name(), i.String())
}
