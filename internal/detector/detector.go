// Package detector handles input type and game variant detection.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/game"
)

// ErrUnsupportedExtension is returned for files that are neither a sequence
// nor a sequence archive.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// SequenceExtensions lists the extensions of raw sequence files.
var SequenceExtensions = []string{".seq", ".aseq", ".zseq"}

// Archive extensions, the extension selects the game variant.
const (
	OOTArchiveExtension = ".ootrs"
	MMArchiveExtension  = ".mmrs"
)

// Input describes a detected input file.
type Input struct {
	Path    string
	Archive bool
	Variant game.Variant
}

// Detector handles input detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new input detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input type and game variant of the file. Archives
// select the variant by their extension, standalone sequences use the
// fallback variant.
func (d *Detector) Detect(path string, fallback game.Variant) (Input, error) {
	input := Input{
		Path:    path,
		Variant: fallback,
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == OOTArchiveExtension:
		input.Archive = true
		input.Variant = game.OOT
	case ext == MMArchiveExtension:
		input.Archive = true
		input.Variant = game.MM
	case IsSequence(path):
	default:
		return Input{}, fmt.Errorf("%w '%s', expected one of %s, %s, %s",
			ErrUnsupportedExtension, ext, strings.Join(SequenceExtensions, ", "),
			OOTArchiveExtension, MMArchiveExtension)
	}

	d.logger.Debug("Detected input",
		log.String("file", path),
		log.String("type", input.Type()),
		log.Stringer("game", input.Variant))
	return input, nil
}

// Type returns a short description of the input type.
func (i Input) Type() string {
	if i.Archive {
		return "archive"
	}
	return "sequence"
}

// IsSequence returns whether the file name has a sequence extension.
func IsSequence(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, seqExt := range SequenceExtensions {
		if ext == seqExt {
			return true
		}
	}
	return false
}
