// Package opcode contains the instruction table of the SEQ section of a sequence.
package opcode

import (
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/operand"
)

// Tag is an optional display highlight category of an instruction.
type Tag uint8

// Display tags.
const (
	NoTag Tag = iota
	VolumeTag
	ConditionalJumpTag
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case VolumeTag:
		return "volume"
	case ConditionalJumpTag:
		return "jump-conditional"
	default:
		return ""
	}
}

// Capture selects which address of a decoded instruction is added to its collector.
type Capture uint8

// Capture modes.
const (
	CaptureOpcode   Capture = iota // address of the opcode byte
	CaptureArgument                // address of the first argument
)

// Descriptor describes an instruction or a group of instructions sharing
// one opcode range.
type Descriptor struct {
	Name      string
	Reader    operand.Kind
	Length    int // total instruction length, 0 if the reader determines it
	Tag       Tag
	Collector addrset.Kind
	Capture   Capture
	Gate      game.Variant // restricts the instruction to one variant if set
}

// Variable returns whether the instruction length is determined by the reader.
func (d *Descriptor) Variable() bool {
	return d.Length == 0
}

// AppliesTo returns whether the instruction exists in the instruction set of the variant.
func (d *Descriptor) AppliesTo(variant game.Variant) bool {
	return d.Gate.Matches(variant)
}

// IsJump returns whether the instruction is one of the jump instructions that
// can be collected for patching.
func (d *Descriptor) IsJump() bool {
	switch d.Collector {
	case addrset.Jump, addrset.EqJump, addrset.LtJump, addrset.GteqJump,
		addrset.RJump, addrset.ReqJump, addrset.RltJump:
		return true
	default:
		return false
	}
}

// IsConditionalJump returns whether the instruction is a conditional jump.
func (d *Descriptor) IsConditionalJump() bool {
	return d.Tag == ConditionalJumpTag
}
