// Package mutation applies volume changes and jump fixes to a decoded sequence
// using the address sets collected by the decoder.
package mutation

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/opcode"
)

// ConditionalJumps lists the jump kinds that are rewritten to unconditional jumps.
var ConditionalJumps = []addrset.Kind{
	addrset.EqJump,
	addrset.LtJump,
	addrset.GteqJump,
	addrset.ReqJump,
	addrset.RltJump,
}

// Patcher overwrites a single byte.
type Patcher interface {
	Patch(address int64, value byte) error
}

// VolumeSource returns the volume to write for a volume argument address.
type VolumeSource func(address int64) (byte, error)

// Uniform returns a source that applies the same value to every address.
func Uniform(value byte) VolumeSource {
	return func(int64) (byte, error) {
		return value, nil
	}
}

// Request describes the mutations to apply.
type Request struct {
	Volume   VolumeSource // nil leaves the volume unchanged
	FixJumps bool
}

// Change is a single patched byte.
type Change struct {
	Kind    addrset.Kind
	Address int64
	Value   byte
}

// Report summarizes the applied mutations.
type Report struct {
	Volume     []Change
	Jumps      []Change
	NoVolume   bool // a volume change was requested but no volume message exists
	FixedJumps bool
}

// Changed returns whether any byte was written.
func (r Report) Changed() bool {
	return len(r.Volume) > 0 || len(r.Jumps) > 0
}

// Orchestrator applies mutations through a patcher.
type Orchestrator struct {
	logger  *log.Logger
	patcher Patcher
}

// New returns a new orchestrator.
func New(logger *log.Logger, patcher Patcher) *Orchestrator {
	return &Orchestrator{
		logger:  logger,
		patcher: patcher,
	}
}

// Apply applies the requested mutations. A missing volume message is reported
// in the result and does not prevent jump fixing.
func (o *Orchestrator) Apply(sets *addrset.Sets, req Request) (Report, error) {
	var report Report

	if req.Volume != nil {
		if sets.Len(addrset.Volume) == 0 {
			report.NoVolume = true
		} else {
			changes, err := o.ApplyVolume(sets, req.Volume)
			report.Volume = changes
			if err != nil {
				return report, err
			}
		}
	}

	if req.FixJumps {
		changes, err := o.FixJumps(sets)
		report.Jumps = changes
		if err != nil {
			return report, err
		}
		report.FixedJumps = true
	}

	return report, nil
}

// ApplyVolume writes the volume returned by the source to every collected
// volume argument address.
func (o *Orchestrator) ApplyVolume(sets *addrset.Sets, source VolumeSource) ([]Change, error) {
	var changes []Change

	for _, address := range sets.Addresses(addrset.Volume) {
		value, err := source(address)
		if err != nil {
			return changes, err
		}
		if err := o.patcher.Patch(address, value); err != nil {
			return changes, fmt.Errorf("patching master volume: %w", err)
		}

		o.logger.Debug("Master volume changed",
			log.Hex("address", address),
			log.Hex("value", value))
		changes = append(changes, Change{Kind: addrset.Volume, Address: address, Value: value})
	}
	return changes, nil
}

// FixJumps rewrites every collected conditional jump to the unconditional
// jump of the same addressing class. Only the opcode byte changes, the jump
// target and the instruction length stay the same.
func (o *Orchestrator) FixJumps(sets *addrset.Sets) ([]Change, error) {
	var changes []Change

	for _, kind := range ConditionalJumps {
		op, _ := opcode.UnconditionalJump(kind)

		for _, address := range sets.Addresses(kind) {
			if err := o.patcher.Patch(address, op); err != nil {
				return changes, fmt.Errorf("patching %s: %w", kind, err)
			}

			o.logger.Debug("Conditional jump fixed",
				log.String("instruction", kind.String()),
				log.Hex("address", address))
			changes = append(changes, Change{Kind: kind, Address: address, Value: op})
		}
	}
	return changes, nil
}
