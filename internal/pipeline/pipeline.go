// Package pipeline orchestrates the sequence editing workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/archive"
	"github.com/retroenv/seqvol/internal/decoder"
	"github.com/retroenv/seqvol/internal/detector"
	"github.com/retroenv/seqvol/internal/loader"
	"github.com/retroenv/seqvol/internal/mutation"
	"github.com/retroenv/seqvol/internal/options"
	"github.com/retroenv/seqvol/internal/patcher"
	"github.com/retroenv/seqvol/internal/prompt"
	"github.com/retroenv/seqvol/internal/spinner"
	"github.com/retroenv/seqvol/internal/terminal"
	"github.com/retroenv/seqvol/internal/verification"
	"github.com/retroenv/seqvol/internal/writer"
	"golang.org/x/sync/errgroup"
)

// Completion messages.
const (
	MessageVolumeAndJumps = "Operation has completed successfully! Master volume messages were changed and jumps were fixed."
	MessageVolume         = "Operation has completed successfully! Master volume messages were changed."
	MessageJumpsOnly      = "Operation has completed successfully! There were no master volume messages, but jumps were fixed."
	MessageJumps          = "Operation has completed successfully! Jumps were fixed."
	MessageNothing        = "Operation has completed, but nothing was changed."
	MessageDryRun         = "Dry run completed, nothing was written."
)

// IO bundles the streams used for interactive questions and the listing.
type IO struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool // questions can be asked on In
	Progress    bool // the spinner is drawn on Out
}

// StdIO returns the process streams with terminal detection applied.
func StdIO() IO {
	return IO{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: terminal.Stdin(),
		Progress:    terminal.IsTerminal(os.Stdout),
	}
}

// Summary is the outcome of a pipeline run.
type Summary struct {
	Result  *decoder.Result
	Report  mutation.Report
	Archive string // path of the repacked archive, if any
	Message string
}

// Pipeline orchestrates the complete editing workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	io       IO
	now      func() time.Time
}

// New creates a new editing pipeline.
func New(logger *log.Logger, streams IO) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		io:       streams,
		now:      time.Now,
	}
}

// Execute runs the complete editing pipeline for the input file.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, editor options.Editor) (*Summary, error) {
	input, err := p.detector.Detect(opts.Input, editor.Variant)
	if err != nil {
		return nil, fmt.Errorf("detecting input: %w", err)
	}

	seqPath := input.Path
	var unpackDir string
	if input.Archive {
		unpackDir, err = os.MkdirTemp("", "seqvol-*")
		if err != nil {
			return nil, fmt.Errorf("creating temporary directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(unpackDir) }()

		seqPath, err = archive.Unpack(input.Path, unpackDir)
		if err != nil {
			return nil, fmt.Errorf("unpacking archive: %w", err)
		}
	}

	p.printInfo(opts, input)

	summary, err := p.editSequence(ctx, seqPath, input, opts, editor)
	if err != nil {
		return nil, err
	}

	if input.Archive && summary.Report.Changed() {
		summary.Archive, err = archive.Repack(unpackDir, input.Path, p.now())
		if err != nil {
			return nil, fmt.Errorf("repacking archive: %w", err)
		}
		p.logger.Info("Archive written", log.String("file", summary.Archive))
	}

	p.logger.Info(summary.Message)
	return summary, nil
}

// editSequence decodes the sequence file, lists it and applies the requested
// mutations in place.
func (p *Pipeline) editSequence(ctx context.Context, path string, input detector.Input,
	opts options.Program, editor options.Editor) (*Summary, error) {

	seq, err := p.loader.Load(path, !editor.HasChanges())
	if err != nil {
		return nil, fmt.Errorf("loading sequence: %w", err)
	}
	defer func() { _ = seq.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.decode(seq, input, opts)
	if err != nil {
		return nil, err
	}

	list := writer.New(p.io.Out, !opts.NoColor)
	if !opts.Quiet {
		if err := list.WriteListing(result); err != nil {
			return nil, fmt.Errorf("writing listing: %w", err)
		}
	}
	if opts.Debug || editor.DryRun {
		if err := list.WriteAddressSets(result.Sets); err != nil {
			return nil, fmt.Errorf("writing address sets: %w", err)
		}
	}

	if !result.Terminated {
		last, _ := result.LastAddress()
		p.logger.Warn("Sequence section has no end message, the data may be incomplete",
			log.Int("records", len(result.Instructions)),
			log.Hex("last", last),
			log.Hex("size", seq.Size))
	}

	summary := &Summary{Result: result}
	if editor.DryRun {
		summary.Message = MessageDryRun
		return summary, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := p.mutationRequest(result.Sets, editor)
	if err != nil {
		return nil, err
	}

	orch := mutation.New(p.logger, patcher.New(seq, seq.Size))
	summary.Report, err = orch.Apply(result.Sets, req)
	if err != nil {
		return nil, fmt.Errorf("editing sequence: %w", err)
	}

	p.logReport(summary.Report)

	if summary.Report.Changed() {
		if err := verification.VerifyEdit(p.logger, input.Variant, result, seq, summary.Report); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Debug("Verification successful")
	}
	summary.Message = completionMessage(summary.Report)
	return summary, nil
}

// decode runs the decoder while the spinner reports progress.
func (p *Pipeline) decode(r io.ReaderAt, input detector.Input, opts options.Program) (*decoder.Result, error) {
	dec := decoder.New(p.logger, input.Variant)
	spin := spinner.New(p.io.Out, p.io.Progress && !opts.Quiet, !opts.NoColor)

	completed := "Parsing completed, listing messages in the SEQ section."
	if opts.Quiet {
		completed = ""
	}

	var result *decoder.Result
	done := make(chan error, 1)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		result, err = dec.Decode(r)
		done <- err
		return err
	})
	g.Go(func() error {
		return spin.Run(done, "Parsing sequence section...", completed)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decoding sequence: %w", err)
	}
	return result, nil
}

// mutationRequest converts the editor options into a mutation request,
// asking the user how to edit multiple master volume messages if needed.
func (p *Pipeline) mutationRequest(sets *addrset.Sets, editor options.Editor) (mutation.Request, error) {
	req := mutation.Request{
		FixJumps: editor.FixJumps,
	}
	if !editor.SetVolume {
		return req, nil
	}

	// a single prompter keeps buffered answers across questions
	questions := prompt.New(p.io.In, p.io.Out)
	count := sets.Len(addrset.Volume)
	mode := editor.Mode
	if mode == options.ModePrompt {
		mode = options.ModeAuto
		if count > 1 && p.io.Interactive {
			var err error
			mode, err = questions.Mode(count)
			if err != nil {
				return req, fmt.Errorf("asking for volume mode: %w", err)
			}
		}
	}

	if mode == options.ModeManual && count > 0 {
		req.Volume = questions.Volume
	} else {
		req.Volume = mutation.Uniform(editor.Volume)
	}
	return req, nil
}

func (p *Pipeline) logReport(report mutation.Report) {
	if report.NoVolume {
		p.logger.Warn("Could not find a master volume message in the sequence, the master volume can not be changed")
	}

	for _, change := range report.Volume {
		p.logger.Info("Master volume changed",
			log.String("address", fmt.Sprintf("@%04X", change.Address)),
			log.Int("value", int(change.Value)),
			log.Hex("hex", change.Value))
	}
	for _, change := range report.Jumps {
		p.logger.Info("Jump fixed",
			log.String("address", fmt.Sprintf("@%04X", change.Address)),
			log.Stringer("from", change.Kind),
			log.Hex("opcode", change.Value))
	}
}

func completionMessage(report mutation.Report) string {
	switch {
	case len(report.Volume) > 0 && len(report.Jumps) > 0:
		return MessageVolumeAndJumps
	case len(report.Volume) > 0:
		return MessageVolume
	case len(report.Jumps) > 0 && report.NoVolume:
		return MessageJumpsOnly
	case len(report.Jumps) > 0:
		return MessageJumps
	default:
		return MessageNothing
	}
}

func (p *Pipeline) printInfo(opts options.Program, input detector.Input) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing sequence",
		log.String("file", input.Path),
		log.String("type", input.Type()),
		log.Stringer("game", input.Variant))
}
