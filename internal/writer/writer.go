// Package writer implements the sequence section listing output.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/decoder"
	"github.com/retroenv/seqvol/internal/opcode"
	"github.com/retroenv/seqvol/internal/terminal"
)

// Banners framing the listing.
const (
	StartBanner = "[  START SEQ SECTION  ]"
	HeaderLine  = "COMMAND         @ADDR: DATA"
	EndBanner   = "[   END SEQ SECTION   ]"
)

// Writer writes decoded sequence records.
type Writer struct {
	out *termenv.Output
}

// New creates a new listing writer. Tagged records are colored when color is
// set and the writer is a terminal.
func New(w io.Writer, color bool) *Writer {
	return &Writer{
		out: terminal.NewOutput(w, color),
	}
}

// WriteListing writes all records of the result between the section banners.
func (w *Writer) WriteListing(result *decoder.Result) error {
	lines := make([]string, 0, len(result.Instructions)+4)
	lines = append(lines, StartBanner, HeaderLine)

	for _, ins := range result.Instructions {
		lines = append(lines, w.styleRecord(ins))
	}

	lines = append(lines, EndBanner)
	return w.writeLines(lines)
}

// WriteAddressSets writes the collected addresses of every non empty set.
func (w *Writer) WriteAddressSets(sets *addrset.Sets) error {
	var lines []string

	for _, kind := range addrset.Kinds {
		addresses := sets.Addresses(kind)
		if len(addresses) == 0 {
			continue
		}

		formatted := make([]string, len(addresses))
		for i, address := range addresses {
			formatted[i] = fmt.Sprintf("@%04X", address)
		}
		lines = append(lines, fmt.Sprintf("%-9s %d: %s", kind.String()+":", len(addresses), strings.Join(formatted, " ")))
	}

	return w.writeLines(lines)
}

func (w *Writer) styleRecord(ins decoder.Instruction) string {
	record := ins.Record()

	switch {
	case ins.Tag() == opcode.VolumeTag:
		return terminal.Colorize(w.out, record, terminal.Pink)
	case ins.Descriptor.IsConditionalJump():
		return terminal.Colorize(w.out, record, terminal.Yellow)
	default:
		return record
	}
}

func (w *Writer) writeLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}
