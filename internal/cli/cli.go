// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/options"
	"github.com/retroenv/seqvol/internal/volume"
	"github.com/spf13/pflag"
)

// ParseFlags parses command line flags and returns program and editor options
func ParseFlags() (options.Program, options.Editor, error) {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return opts, options.Editor{}, &UsageError{flags: flags}
		}
		return opts, options.Editor{}, &UsageError{flags: flags, msg: err.Error()}
	}

	args := flags.Args()
	switch len(args) {
	case 0:
		return opts, options.Editor{}, &UsageError{flags: flags}
	case 1, 2:
	default:
		return opts, options.Editor{}, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, expected a file and an optional volume", args[2]),
		}
	}

	opts.Input = args[0]
	if len(args) == 2 {
		opts.Volume = args[1]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Editor{}, err
	}

	editor, err := createEditorOptions(opts)
	if err != nil {
		return opts, options.Editor{}, err
	}
	if !editor.SetVolume && !editor.FixJumps && !editor.DryRun {
		return opts, options.Editor{}, &UsageError{
			flags: flags,
			msg:   "nothing to do, pass a volume, -j or -n",
		}
	}

	return opts, editor, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *pflag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage message and the flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}
	fmt.Printf("usage: seqvol [options] <sequence file> [volume]\n\n")
	fmt.Print(e.flags.FlagUsages())
	fmt.Println()
	fmt.Println("volume examples: 64, 0x40, 50%")
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Game = strings.ToLower(strings.TrimSpace(opts.Game))
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))

	if _, err := game.FromString(opts.Game); err != nil {
		return err
	}

	if !slices.Contains(options.Modes, options.Mode(opts.Mode)) {
		valid := make([]string, 0, len(options.Modes))
		for _, mode := range options.Modes {
			valid = append(valid, string(mode))
		}
		return fmt.Errorf("unsupported mode '%s', valid options: %s",
			opts.Mode, strings.Join(valid, ", "))
	}
	return nil
}

// createEditorOptions creates the mutation request based on program options
func createEditorOptions(opts options.Program) (options.Editor, error) {
	variant, err := game.FromString(opts.Game)
	if err != nil {
		return options.Editor{}, err
	}

	editor := options.Editor{
		Variant:  variant,
		Mode:     options.Mode(opts.Mode),
		FixJumps: opts.FixJumps,
		DryRun:   opts.DryRun,
	}

	if opts.Volume != "" {
		value, err := volume.Parse(opts.Volume)
		if err != nil {
			return options.Editor{}, fmt.Errorf("parsing volume: %w", err)
		}
		editor.Volume = value
		editor.SetVolume = true
	}

	return editor, nil
}

func readOptionFlags(flags *pflag.FlagSet, opts *options.Program) {
	flags.BoolVarP(&opts.FixJumps, "fix-jumps", "j", false, "rewrite conditional jumps (eqjump, ltjump, gteqjump, reqjump, rltjump) to unconditional jumps")
	flags.StringVarP(&opts.Game, "game", "g", game.MM.String(), "game variant for standalone sequences (oot, mm), archives select it by extension")
	flags.StringVarP(&opts.Mode, "mode", "m", string(options.ModePrompt), "how to apply the volume to multiple master volume messages (auto, manual, prompt)")
	flags.BoolVarP(&opts.DryRun, "dry-run", "n", false, "list the sequence section without writing any changes")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")
}
