// Package decoder implements the linear decoder of the SEQ section of a
// sequence. Instruction boundaries are only known by decoding every opcode
// in order, the decoder therefore walks the stream strictly forward.
package decoder

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/opcode"
	"github.com/retroenv/seqvol/internal/operand"
)

// Result contains the output of a decode pass.
type Result struct {
	Instructions []Instruction
	Sets         *addrset.Sets

	Terminated bool  // the end opcode was found
	EndAddress int64 // address of the end opcode if terminated
	Skipped    int   // number of unresolved bytes that were skipped
}

// Records returns the listing lines of all decoded instructions in address order.
func (r *Result) Records() []string {
	records := make([]string, 0, len(r.Instructions))
	for _, ins := range r.Instructions {
		records = append(records, ins.Record())
	}
	return records
}

// LastAddress returns the address of the last decoded instruction.
func (r *Result) LastAddress() (int64, bool) {
	if len(r.Instructions) == 0 {
		return 0, false
	}
	return r.Instructions[len(r.Instructions)-1].Address, true
}

// Decoder decodes the SEQ section of a sequence for one game variant.
type Decoder struct {
	logger  *log.Logger
	table   *opcode.Table
	variant game.Variant
}

// New returns a decoder using the SEQ instruction table.
func New(logger *log.Logger, variant game.Variant) *Decoder {
	return NewWithTable(logger, opcode.SeqTable, variant)
}

// NewWithTable returns a decoder using a custom instruction table.
func NewWithTable(logger *log.Logger, table *opcode.Table, variant game.Variant) *Decoder {
	return &Decoder{
		logger:  logger,
		table:   table,
		variant: variant,
	}
}

// Decode decodes the stream from offset 0 until the end opcode or the end of
// the data. Reaching the end of the data without an end opcode is not an error,
// Result.Terminated reports it.
func (d *Decoder) Decode(r io.ReaderAt) (*Result, error) {
	result := &Result{
		Sets: addrset.New(),
	}

	var pc int64
	for {
		op, err := readOpcode(r, pc)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return nil, err
		}

		desc, ok := d.resolve(pc, op)
		if !ok {
			result.Skipped++
			pc++
			continue
		}

		ins, err := d.decodeInstruction(r, pc, op, desc)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				d.logger.Debug("Instruction truncated by end of data",
					log.Hex("address", pc),
					log.String("instruction", desc.Name))
				return result, nil
			}
			return nil, err
		}

		result.Instructions = append(result.Instructions, ins)
		collect(result.Sets, ins)

		if op == opcode.EndOpcode {
			result.Terminated = true
			result.EndAddress = pc
			return result, nil
		}
		pc += int64(ins.Advance)
	}
}

// resolve returns the descriptor of the opcode if it is valid for the
// active variant.
func (d *Decoder) resolve(pc int64, op byte) (*opcode.Descriptor, bool) {
	desc, ok := d.table.Resolve(op)
	if !ok {
		d.logger.Debug("Skipping unknown opcode",
			log.Hex("address", pc),
			log.Hex("opcode", op))
		return nil, false
	}
	if !desc.AppliesTo(d.variant) {
		d.logger.Debug("Skipping opcode of other game variant",
			log.Hex("address", pc),
			log.Hex("opcode", op),
			log.Stringer("variant", d.variant))
		return nil, false
	}
	return desc, true
}

func (d *Decoder) decodeInstruction(r io.ReaderAt, pc int64, op byte, desc *opcode.Descriptor) (Instruction, error) {
	ops, err := operand.Read(r, desc.Reader, pc)
	if err != nil {
		return Instruction{}, fmt.Errorf("reading arguments of %s at %04x: %w", desc.Name, pc, err)
	}

	advance := desc.Length
	if desc.Variable() {
		advance = ops.Length
	}
	if desc.Reader == operand.Opaque {
		// the bytes are not decoded but must exist
		if _, err := readOpcode(r, pc+int64(advance)-1); err != nil {
			if errors.Is(err, io.EOF) {
				return Instruction{}, io.ErrUnexpectedEOF
			}
			return Instruction{}, err
		}
	}

	return Instruction{
		Address:    pc,
		Opcode:     op,
		Descriptor: desc,
		Args:       ops.Args,
		Advance:    advance,
	}, nil
}

// collect adds the designated address of the instruction to its collector set.
func collect(sets *addrset.Sets, ins Instruction) {
	desc := ins.Descriptor
	if desc.Collector == addrset.None {
		return
	}

	switch desc.Capture {
	case opcode.CaptureArgument:
		if arg, ok := ins.Arg(0); ok {
			sets.Add(desc.Collector, arg.Address)
		}
	default:
		sets.Add(desc.Collector, ins.Address)
	}
}

func readOpcode(r io.ReaderAt, offset int64) (byte, error) {
	var buf [1]byte
	n, err := r.ReadAt(buf[:], offset)
	if n == 1 {
		return buf[0], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0, io.EOF
	}
	return 0, fmt.Errorf("reading opcode at offset %04x: %w", offset, err)
}
