// Package spinner shows a progress indicator while a stage is running.
package spinner

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/retroenv/seqvol/internal/terminal"
)

// Interval is the delay between two frames.
const Interval = 45 * time.Millisecond

const green = "79"

// Frames of the spinner animation.
var Frames = []string{
	"⢀⠀", "⡀⠀", "⠄⠀", "⢂⠀", "⡂⠀", "⠅⠀", "⢃⠀", "⡃⠀", "⠍⠀", "⢋⠀",
	"⡋⠀", "⠍⠁", "⢋⠁", "⡋⠁", "⠍⠉", "⠋⠉", "⠋⠉", "⠉⠙", "⠉⠙", "⠉⠩",
	"⠈⢙", "⠈⡙", "⢈⠩", "⡀⢙", "⠄⡙", "⢂⠩", "⡂⢘", "⠅⡘", "⢃⠨", "⡃⢐",
	"⠍⡐", "⢋⠠", "⡋⢀", "⠍⡁", "⢋⠁", "⡋⠁", "⠍⠉", "⠋⠉", "⠋⠉", "⠉⠙",
	"⠉⠙", "⠉⠩", "⠈⢙", "⠈⡙", "⠈⠩", "⠀⢙", "⠀⡙", "⠀⠩", "⠀⢘", "⠀⡘",
	"⠀⠨", "⠀⢐", "⠀⡐", "⠀⠠", "⠀⢀", "⠀⡀",
}

// Spinner draws frames next to a status message until its stage completes.
type Spinner struct {
	out      *termenv.Output
	enabled  bool
	interval time.Duration
}

// New returns a spinner writing to w. A disabled spinner only prints the
// completion message.
func New(w io.Writer, enabled, color bool) *Spinner {
	return &Spinner{
		out:      terminal.NewOutput(w, color),
		enabled:  enabled,
		interval: Interval,
	}
}

// Run animates the spinner with message until the stage reports its outcome
// on done, then replaces the line with the completion message. The message is
// only printed when the stage succeeded. It never touches anything but its
// output.
func (s *Spinner) Run(done <-chan error, message, completed string) error {
	if !s.enabled {
		// a failed stage reports its own error
		if stageErr := <-done; stageErr != nil {
			return nil
		}
		return s.finish(completed)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.out.HideCursor()
	stageErr, err := s.animate(done, ticker.C, message)
	s.out.ClearLine()
	s.out.ShowCursor()
	if err != nil || stageErr != nil {
		return err
	}
	return s.finish(completed)
}

// animate draws frames until done delivers the stage outcome.
func (s *Spinner) animate(done <-chan error, tick <-chan time.Time, message string) (stageErr, drawErr error) {
	for frame := 0; ; frame = (frame + 1) % len(Frames) {
		if err := s.draw(Frames[frame], message); err != nil {
			return nil, err
		}

		select {
		case stageErr = <-done:
			return stageErr, nil
		case <-tick:
		}
	}
}

func (s *Spinner) draw(frame, message string) error {
	if _, err := fmt.Fprintf(s.out, "  %s %s\r", terminal.Colorize(s.out, frame, green), message); err != nil {
		return fmt.Errorf("drawing spinner: %w", err)
	}
	return nil
}

func (s *Spinner) finish(completed string) error {
	if completed == "" {
		return nil
	}
	if _, err := fmt.Fprintf(s.out, "  %s\n", completed); err != nil {
		return fmt.Errorf("writing completion message: %w", err)
	}
	return nil
}
