package opcode

import (
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/operand"
)

// Opcode values referenced outside of the table.
const (
	EndOpcode   = 0xFF
	JumpOpcode  = 0xFB
	RJumpOpcode = 0xF4
)

// Control flow instructions.
var (
	End       = &Descriptor{Name: "end", Reader: operand.None, Length: 1}
	Delay1    = &Descriptor{Name: "delay1", Reader: operand.None, Length: 1}
	Delay     = &Descriptor{Name: "delay", Reader: operand.VarLen}
	Call      = &Descriptor{Name: "call", Reader: operand.ArgU16, Length: 3}
	Jump      = &Descriptor{Name: "jump", Reader: operand.ArgU16, Length: 3, Collector: addrset.Jump}
	EqJump    = &Descriptor{Name: "eqjump", Reader: operand.ArgU16, Length: 3, Tag: ConditionalJumpTag, Collector: addrset.EqJump}
	LtJump    = &Descriptor{Name: "ltjump", Reader: operand.ArgU16, Length: 3, Tag: ConditionalJumpTag, Collector: addrset.LtJump}
	Loop      = &Descriptor{Name: "loop", Reader: operand.ArgU8, Length: 2}
	LoopEnd   = &Descriptor{Name: "loopend", Reader: operand.None, Length: 1}
	LoopBreak = &Descriptor{Name: "loopbreak", Reader: operand.None, Length: 1}
	GteqJump  = &Descriptor{Name: "gteqjump", Reader: operand.ArgU16, Length: 3, Tag: ConditionalJumpTag, Collector: addrset.GteqJump}
	RJump     = &Descriptor{Name: "rjump", Reader: operand.ArgU8, Length: 2, Collector: addrset.RJump}
	ReqJump   = &Descriptor{Name: "reqjump", Reader: operand.ArgU8, Length: 2, Tag: ConditionalJumpTag, Collector: addrset.ReqJump}
	RltJump   = &Descriptor{Name: "rltjump", Reader: operand.ArgU8, Length: 2, Tag: ConditionalJumpTag, Collector: addrset.RltJump}
)

// General instructions.
var (
	ReserveNotes   = &Descriptor{Name: "reservenotes", Reader: operand.ArgU8, Length: 2}
	ReleaseNotes   = &Descriptor{Name: "releasenotes", Reader: operand.ArgU8, Length: 2}
	Print3         = &Descriptor{Name: "print3", Reader: operand.ArgS16U8, Length: 4}
	Transpose      = &Descriptor{Name: "transpose", Reader: operand.ArgU8, Length: 2}
	RTranspose     = &Descriptor{Name: "rtranspose", Reader: operand.ArgU8, Length: 2}
	Tempo          = &Descriptor{Name: "tempo", Reader: operand.ArgU8, Length: 2}
	AddTempo       = &Descriptor{Name: "addtempo", Reader: operand.ArgU8, Length: 2}
	MstrVol        = &Descriptor{Name: "mstrvol", Reader: operand.ArgU8, Length: 2, Tag: VolumeTag, Collector: addrset.Volume, Capture: CaptureArgument}
	Fade           = &Descriptor{Name: "fade", Reader: operand.ArgU8U16, Length: 4}
	MstrExpression = &Descriptor{Name: "mstrexpression", Reader: operand.ArgU8, Length: 2}
	EnableChan     = &Descriptor{Name: "enablechan", Reader: operand.ArgU16, Length: 3}
	DisableChan    = &Descriptor{Name: "disablechan", Reader: operand.ArgU16, Length: 3}
	MuteScale      = &Descriptor{Name: "mutescale", Reader: operand.ArgU8, Length: 2}
	Mute           = &Descriptor{Name: "mute", Reader: operand.None, Length: 1}
	MuteBhv        = &Descriptor{Name: "mutebhv", Reader: operand.ArgU8, Length: 2}
	LoadShortVel   = &Descriptor{Name: "loadshortvel", Reader: operand.ArgU16, Length: 3}
	LoadShortGate  = &Descriptor{Name: "loadshortgate", Reader: operand.ArgU16, Length: 3}
	NoteAlloc      = &Descriptor{Name: "notealloc", Reader: operand.ArgU8, Length: 2}
	Rand           = &Descriptor{Name: "rand", Reader: operand.ArgU8, Length: 2}
	DynCall        = &Descriptor{Name: "dyncall", Reader: operand.ArgU16, Length: 3}
	Load           = &Descriptor{Name: "load", Reader: operand.ArgU8, Length: 2}
	And            = &Descriptor{Name: "and", Reader: operand.ArgU8, Length: 2}
	Sub            = &Descriptor{Name: "sub", Reader: operand.ArgU8, Length: 2}
	StoreSeq       = &Descriptor{Name: "storeseq", Reader: operand.ArgU8U16, Length: 4}
	Stop           = &Descriptor{Name: "stop", Reader: operand.None, Length: 1}
	ScriptCtr      = &Descriptor{Name: "scriptctr", Reader: operand.ArgU16, Length: 3}
	CallSeq        = &Descriptor{Name: "callseq", Reader: operand.ArgU8x2, Length: 3}

	// MuteChan and Unknown only exist in the MM sequence player.
	MuteChan = &Descriptor{Name: "mutechan", Reader: operand.ArgU16, Length: 3, Gate: game.MM}
	Unknown  = &Descriptor{Name: "unk", Reader: operand.Opaque, Length: 3, Gate: game.MM}
)

// Instructions with the channel or IO slot encoded in the low nibble.
var (
	TestChan  = &Descriptor{Name: "testchan", Reader: operand.None, Length: 1}
	StopChan  = &Descriptor{Name: "stopchan", Reader: operand.None, Length: 1}
	SubIO     = &Descriptor{Name: "subio", Reader: operand.None, Length: 1}
	LoadRes   = &Descriptor{Name: "loadres", Reader: operand.ArgU8x2, Length: 3}
	StoreIO   = &Descriptor{Name: "storeio", Reader: operand.None, Length: 1}
	LoadIO    = &Descriptor{Name: "loadio", Reader: operand.None, Length: 1}
	LoadChan  = &Descriptor{Name: "loadchan", Reader: operand.ArgU16, Length: 3}
	RLoadChan = &Descriptor{Name: "rloadchan", Reader: operand.ArgU16, Length: 3}
	LoadSeq   = &Descriptor{Name: "loadseq", Reader: operand.ArgU8U16, Length: 4}
)

var exactOpcodes = map[byte]*Descriptor{
	0xFF: End,
	0xFE: Delay1,
	0xFD: Delay,
	0xFC: Call,
	0xFB: Jump,
	0xFA: EqJump,
	0xF9: LtJump,
	0xF8: Loop,
	0xF7: LoopEnd,
	0xF6: LoopBreak,
	0xF5: GteqJump,
	0xF4: RJump,
	0xF3: ReqJump,
	0xF2: RltJump,

	0xF1: ReserveNotes,
	0xF0: ReleaseNotes,
	0xEF: Print3,
	0xDF: Transpose,
	0xDE: RTranspose,
	0xDD: Tempo,
	0xDC: AddTempo,
	0xDB: MstrVol,
	0xDA: Fade,
	0xD9: MstrExpression,
	0xD7: EnableChan,
	0xD6: DisableChan,
	0xD5: MuteScale,
	0xD4: Mute,
	0xD3: MuteBhv,
	0xD2: LoadShortVel,
	0xD1: LoadShortGate,
	0xD0: NoteAlloc,
	0xCE: Rand,
	0xCD: DynCall,
	0xCC: Load,
	0xC9: And,
	0xC8: Sub,
	0xC7: StoreSeq,
	0xC6: Stop,
	0xC5: ScriptCtr,
	0xC4: CallSeq,
	0xC3: MuteChan,
	0xC2: Unknown,
}

var rangeOpcodes = []Range{
	{First: 0x00, Last: 0x0F, Descriptor: TestChan},
	{First: 0x40, Last: 0x4F, Descriptor: StopChan},
	{First: 0x50, Last: 0x5F, Descriptor: SubIO},
	{First: 0x60, Last: 0x6F, Descriptor: LoadRes},
	{First: 0x70, Last: 0x7F, Descriptor: StoreIO},
	{First: 0x80, Last: 0x8F, Descriptor: LoadIO},
	{First: 0x90, Last: 0x9F, Descriptor: LoadChan},
	{First: 0xA0, Last: 0xAF, Descriptor: RLoadChan},
	{First: 0xB0, Last: 0xBF, Descriptor: LoadSeq},
}

// SeqTable is the instruction table of the SEQ section.
var SeqTable = mustNewTable(exactOpcodes, rangeOpcodes)

// UnconditionalJump returns the opcode that replaces a conditional jump of the
// given kind and whether the kind is a patchable conditional jump.
func UnconditionalJump(kind addrset.Kind) (byte, bool) {
	switch kind {
	case addrset.EqJump, addrset.LtJump, addrset.GteqJump:
		return JumpOpcode, true
	case addrset.ReqJump, addrset.RltJump:
		return RJumpOpcode, true
	default:
		return 0, false
	}
}
