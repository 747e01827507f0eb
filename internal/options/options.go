// Package options contains the program options.
package options

import (
	"github.com/retroenv/seqvol/internal/game"
)

// Mode selects how the volume is applied when a sequence contains more than
// one master volume message.
type Mode string

// Supported volume modes.
const (
	ModeAuto   Mode = "auto"   // one value for all messages
	ModeManual Mode = "manual" // ask for a value per message
	ModePrompt Mode = "prompt" // ask which of the above to use
)

// Modes lists all supported volume modes.
var Modes = []Mode{ModeAuto, ModeManual, ModePrompt}

// Parameters contains positional arguments.
type Parameters struct {
	Input  string `arg:"positional" usage:"sequence file or .ootrs/.mmrs archive"`
	Volume string `arg:"positional" usage:"master volume: 0-255, 0x00-0xFF or 0%-200%"`
}

// Flags contains behavior options.
type Flags struct {
	FixJumps bool   `flag:"j" usage:"rewrite conditional jumps to unconditional jumps"`
	Game     string `flag:"g" usage:"game variant for standalone sequences: oot, mm" default:"mm"`
	Mode     string `flag:"m" usage:"volume mode: auto, manual, prompt" default:"prompt"`
	DryRun   bool   `flag:"n" usage:"list the sequence without writing"`
	NoColor  bool   `flag:"no-color" usage:"disable colored output"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the tool.
type Program struct {
	Parameters
	Flags
}

// Editor defines the mutations requested for a sequence.
type Editor struct {
	Variant   game.Variant // variant for standalone sequences, archives override it
	Mode      Mode
	Volume    byte
	SetVolume bool
	FixJumps  bool
	DryRun    bool
}

// HasChanges returns whether any mutation was requested.
func (e Editor) HasChanges() bool {
	return !e.DryRun && (e.SetVolume || e.FixJumps)
}
