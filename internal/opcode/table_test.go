package opcode

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/operand"
)

func TestSeqTable_Resolve(t *testing.T) {
	tests := []struct {
		name string
		op   byte
		want *Descriptor
	}{
		{"end", 0xFF, End},
		{"delay", 0xFD, Delay},
		{"master volume", 0xDB, MstrVol},
		{"equal jump", 0xFA, EqJump},
		{"relative less than jump", 0xF2, RltJump},
		{"mm only mutechan", 0xC3, MuteChan},
		{"test channel first", 0x00, TestChan},
		{"test channel last", 0x0F, TestChan},
		{"stop channel", 0x43, StopChan},
		{"load resource", 0x6A, LoadRes},
		{"load channel relative", 0xAF, RLoadChan},
		{"load sequence", 0xB0, LoadSeq},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := SeqTable.Resolve(tt.op)
			assert.True(t, ok)
			assert.True(t, desc == tt.want, "resolved %s", desc.Name)
		})
	}
}

func TestSeqTable_ResolveUnknown(t *testing.T) {
	for _, op := range []byte{0x10, 0x3F, 0xC0, 0xC1, 0xCA, 0xCB, 0xCF, 0xD8, 0xE0, 0xEE} {
		desc, ok := SeqTable.Resolve(op)
		assert.False(t, ok, "opcode %02X", op)
		assert.Nil(t, desc)
	}
}

func TestSeqTable_AtMostOneDescriptor(t *testing.T) {
	for value := 0; value <= 0xFF; value++ {
		op := byte(value)
		matches := 0
		if _, ok := SeqTable.exact[op]; ok {
			matches++
		}
		for _, r := range SeqTable.ranges {
			if r.Contains(op) {
				matches++
			}
		}
		assert.True(t, matches <= 1, "opcode %02X matched %d entries", op, matches)
	}
}

func TestSeqTable_LengthsMatchReaders(t *testing.T) {
	assert.NoError(t, SeqTable.Validate())

	for op, desc := range SeqTable.exact {
		if desc.Reader == operand.VarLen || desc.Reader == operand.Opaque {
			continue
		}
		assert.Equal(t, desc.Reader.Size(), desc.Length, "opcode %02X", op)
	}
}

func TestNewTable_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		exact  map[byte]*Descriptor
		ranges []Range
	}{
		{
			name:   "exact inside range",
			exact:  map[byte]*Descriptor{0x05: Tempo},
			ranges: []Range{{First: 0x00, Last: 0x0F, Descriptor: TestChan}},
		},
		{
			name: "overlapping ranges",
			ranges: []Range{
				{First: 0x00, Last: 0x0F, Descriptor: TestChan},
				{First: 0x0F, Last: 0x1F, Descriptor: StopChan},
			},
		},
		{
			name:   "inverted range",
			ranges: []Range{{First: 0x10, Last: 0x00, Descriptor: TestChan}},
		},
		{
			name:  "length mismatch",
			exact: map[byte]*Descriptor{0x01: {Name: "bad", Reader: operand.ArgU16, Length: 2}},
		},
		{
			name:  "variable reader with fixed length",
			exact: map[byte]*Descriptor{0x01: {Name: "bad", Reader: operand.VarLen, Length: 2}},
		},
		{
			name:  "opaque reader without length",
			exact: map[byte]*Descriptor{0x01: {Name: "bad", Reader: operand.Opaque}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.exact, tt.ranges)
			assert.True(t, errors.Is(err, ErrMalformedTable))
		})
	}
}

func TestDescriptor_AppliesTo(t *testing.T) {
	assert.True(t, MuteChan.AppliesTo(game.MM))
	assert.False(t, MuteChan.AppliesTo(game.OOT))
	assert.False(t, Unknown.AppliesTo(game.OOT))
	assert.True(t, MstrVol.AppliesTo(game.OOT))
	assert.True(t, MstrVol.AppliesTo(game.MM))
}

func TestDescriptor_Jumps(t *testing.T) {
	assert.True(t, Jump.IsJump())
	assert.False(t, Jump.IsConditionalJump())
	assert.True(t, EqJump.IsConditionalJump())
	assert.True(t, ReqJump.IsConditionalJump())
	assert.False(t, MstrVol.IsJump())
	assert.True(t, Delay.Variable())
	assert.False(t, Call.Variable())
}

func TestUnconditionalJump(t *testing.T) {
	tests := []struct {
		kind   addrset.Kind
		want   byte
		wantOK bool
	}{
		{addrset.EqJump, JumpOpcode, true},
		{addrset.LtJump, JumpOpcode, true},
		{addrset.GteqJump, JumpOpcode, true},
		{addrset.ReqJump, RJumpOpcode, true},
		{addrset.RltJump, RJumpOpcode, true},
		{addrset.Jump, 0, false},
		{addrset.RJump, 0, false},
		{addrset.Volume, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			op, ok := UnconditionalJump(tt.kind)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "volume", MstrVol.Tag.String())
	assert.Equal(t, "jump-conditional", GteqJump.Tag.String())
	assert.Equal(t, "", Call.Tag.String())
}
