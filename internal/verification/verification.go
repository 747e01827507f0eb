// Package verification verifies that an edited sequence decodes to the same
// instruction layout with the written values in place.
package verification

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/decoder"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/mutation"
)

// ErrMismatch is returned when the edited sequence does not match the expected result.
var ErrMismatch = errors.New("edited sequence mismatch")

const maxLoggedMismatches = 10

// VerifyEdit decodes the edited sequence again and compares it to the
// decoding result before the edit and the applied changes.
func VerifyEdit(logger *log.Logger, variant game.Variant, before *decoder.Result,
	r io.ReaderAt, report mutation.Report) error {

	after, err := decoder.New(logger, variant).Decode(r)
	if err != nil {
		return fmt.Errorf("decoding edited sequence: %w", err)
	}

	v := &verifier{logger: logger}
	v.compareLayout(before, after)

	byAddress := make(map[int64]decoder.Instruction, len(after.Instructions))
	argAt := make(map[int64]int32)
	for _, ins := range after.Instructions {
		byAddress[ins.Address] = ins
		for _, arg := range ins.Args {
			argAt[arg.Address] = arg.Value
		}
	}

	for _, change := range report.Volume {
		value, ok := argAt[change.Address]
		if !ok {
			v.mismatch("Master volume argument missing", change.Address, int(change.Value), -1)
			continue
		}
		if value != int32(change.Value) {
			v.mismatch("Master volume mismatch", change.Address, int(change.Value), int(value))
		}
	}

	for _, change := range report.Jumps {
		ins, ok := byAddress[change.Address]
		if !ok {
			v.mismatch("Jump missing", change.Address, int(change.Value), -1)
			continue
		}
		if !ins.Descriptor.IsJump() || ins.Opcode != change.Value {
			v.mismatch("Jump opcode mismatch", change.Address, int(change.Value), int(ins.Opcode))
		}
	}

	if len(report.Jumps) > 0 {
		for _, kind := range mutation.ConditionalJumps {
			for _, address := range after.Sets.Addresses(kind) {
				v.mismatch("Conditional jump left", address, -1, -1)
			}
		}
	}

	if v.diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d mismatches", ErrMismatch, v.diffs)
}

type verifier struct {
	logger *log.Logger
	diffs  int
	logged int
}

// compareLayout checks that the instruction boundaries and the terminator
// did not move.
func (v *verifier) compareLayout(before, after *decoder.Result) {
	if len(before.Instructions) != len(after.Instructions) {
		v.diffs++
		v.logger.Error("Instruction count mismatch",
			log.Int("expected", len(before.Instructions)),
			log.Int("got", len(after.Instructions)))
		return
	}

	for i, expected := range before.Instructions {
		got := after.Instructions[i]
		if expected.Address != got.Address || expected.Advance != got.Advance {
			v.mismatch("Instruction layout mismatch", expected.Address, expected.Advance, got.Advance)
		}
	}

	if before.Terminated != after.Terminated || before.EndAddress != after.EndAddress {
		v.mismatch("End of sequence section moved", before.EndAddress, int(before.EndAddress), int(after.EndAddress))
	}
	if before.Sets.Len(addrset.Volume) != after.Sets.Len(addrset.Volume) {
		v.mismatch("Master volume count mismatch", 0,
			before.Sets.Len(addrset.Volume), after.Sets.Len(addrset.Volume))
	}
}

func (v *verifier) mismatch(msg string, address int64, expected, got int) {
	v.diffs++
	if v.diffs <= maxLoggedMismatches {
		v.logged++
		v.logger.Error(msg,
			log.Hex("address", address),
			log.Int("expected", expected),
			log.Int("got", got))
	}
}
