// Package prompt asks the user how to edit sequences with multiple master
// volume messages.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/seqvol/internal/options"
	"github.com/retroenv/seqvol/internal/volume"
)

// ErrExit is returned when the user chooses to exit.
var ErrExit = errors.New("exit requested by user")

const exitAnswer = "exit"

// Prompter reads answers line by line.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New returns a prompter reading answers from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

// Mode asks whether multiple master volume messages are edited automatically
// or manually. The question is repeated until a valid answer is given.
func (p *Prompter) Mode(count int) (options.Mode, error) {
	if err := p.printf("Found %d master volume messages in the sequence.\n"+
		"Do you wish to modify them automatically or manually?\n"+
		"Options: auto, manual, exit\n", count); err != nil {
		return "", err
	}

	for {
		answer, err := p.ask("Input: ")
		if err != nil {
			return "", err
		}

		switch strings.ToLower(answer) {
		case string(options.ModeAuto):
			return options.ModeAuto, nil
		case string(options.ModeManual):
			return options.ModeManual, nil
		case exitAnswer:
			return "", ErrExit
		}
	}
}

// Volume asks for the volume of the master volume message argument at
// address. Invalid values are asked again.
func (p *Prompter) Volume(address int64) (byte, error) {
	for {
		answer, err := p.ask(fmt.Sprintf("Volume at @%04X (e.g. 64, 0x40, 50%%): ", address))
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(answer, exitAnswer) {
			return 0, ErrExit
		}

		value, err := volume.Parse(answer)
		if err != nil {
			if err := p.printf("  %s\n", err); err != nil {
				return 0, err
			}
			continue
		}
		return value, nil
	}
}

func (p *Prompter) ask(question string) (string, error) {
	if err := p.printf("%s", question); err != nil {
		return "", err
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *Prompter) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}
	return nil
}
