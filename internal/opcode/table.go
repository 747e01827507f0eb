package opcode

import (
	"errors"
	"fmt"
	"slices"

	"github.com/retroenv/seqvol/internal/operand"
)

// Range maps a closed opcode range to a shared descriptor.
type Range struct {
	First      byte
	Last       byte
	Descriptor *Descriptor
}

// Contains returns whether the opcode is inside the range.
func (r Range) Contains(op byte) bool {
	return op >= r.First && op <= r.Last
}

// Table resolves opcodes to descriptors. Exact entries are checked before
// ranges, a well-formed table never has an opcode covered twice.
type Table struct {
	exact  map[byte]*Descriptor
	ranges []Range
}

// ErrMalformedTable is returned when a table violates its invariants.
var ErrMalformedTable = errors.New("malformed opcode table")

// NewTable returns a validated table.
func NewTable(exact map[byte]*Descriptor, ranges []Range) (*Table, error) {
	t := &Table{
		exact:  exact,
		ranges: slices.Clone(ranges),
	}
	slices.SortFunc(t.ranges, func(a, b Range) int {
		return int(a.First) - int(b.First)
	})

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func mustNewTable(exact map[byte]*Descriptor, ranges []Range) *Table {
	t, err := NewTable(exact, ranges)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the descriptor for the opcode.
func (t *Table) Resolve(op byte) (*Descriptor, bool) {
	if desc, ok := t.exact[op]; ok {
		return desc, true
	}
	for _, r := range t.ranges {
		if r.Contains(op) {
			return r.Descriptor, true
		}
	}
	return nil, false
}

// Validate checks that no opcode is covered by more than one entry and that
// every descriptor length matches its reader.
func (t *Table) Validate() error {
	for i, r := range t.ranges {
		if r.Descriptor == nil {
			return fmt.Errorf("%w: range %02X-%02X has no descriptor", ErrMalformedTable, r.First, r.Last)
		}
		if r.First > r.Last {
			return fmt.Errorf("%w: range %02X-%02X is inverted", ErrMalformedTable, r.First, r.Last)
		}
		if i > 0 && t.ranges[i-1].Last >= r.First {
			return fmt.Errorf("%w: range %02X-%02X overlaps range %02X-%02X",
				ErrMalformedTable, r.First, r.Last, t.ranges[i-1].First, t.ranges[i-1].Last)
		}
		if err := validateDescriptor(r.Descriptor); err != nil {
			return err
		}
	}

	for op, desc := range t.exact {
		if desc == nil {
			return fmt.Errorf("%w: opcode %02X has no descriptor", ErrMalformedTable, op)
		}
		for _, r := range t.ranges {
			if r.Contains(op) {
				return fmt.Errorf("%w: opcode %02X (%s) is also covered by range %02X-%02X (%s)",
					ErrMalformedTable, op, desc.Name, r.First, r.Last, r.Descriptor.Name)
			}
		}
		if err := validateDescriptor(desc); err != nil {
			return err
		}
	}
	return nil
}

func validateDescriptor(desc *Descriptor) error {
	size := desc.Reader.Size()
	switch {
	case desc.Reader == operand.VarLen:
		if desc.Length != 0 {
			return fmt.Errorf("%w: %s has a variable length reader but fixed length %d",
				ErrMalformedTable, desc.Name, desc.Length)
		}
	case size == 0:
		if desc.Length == 0 {
			return fmt.Errorf("%w: %s needs a fixed length", ErrMalformedTable, desc.Name)
		}
	case size != desc.Length:
		return fmt.Errorf("%w: %s has length %d but its reader consumes %d bytes",
			ErrMalformedTable, desc.Name, desc.Length, size)
	}
	return nil
}
