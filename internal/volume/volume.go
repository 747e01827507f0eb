// Package volume parses master volume values given as byte or percentage.
package volume

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Limits of the accepted input values.
const (
	MaxValue   = 0xFF
	MaxPercent = 200

	// FullScale is the volume value that corresponds to 100%.
	FullScale = 127
)

var (
	// ErrSyntax is returned for input that is neither a number nor a percentage.
	ErrSyntax = errors.New("invalid volume")
	// ErrRange is returned for values outside of the accepted limits.
	ErrRange = errors.New("volume out of range")
)

// FromPercent converts a percentage of the full scale volume to a volume byte,
// rounding up.
func FromPercent(percent float64) byte {
	return byte(math.Ceil(percent / 100 * FullScale))
}

// Parse parses a volume given as decimal or 0x prefixed hex byte value, or as
// a percentage like "50%". Leading zeros are decimal, other base prefixes and
// digit separators are rejected.
func Parse(s string) (byte, error) {
	s = strings.TrimSpace(s)

	if number, ok := strings.CutSuffix(s, "%"); ok {
		percent, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
		if err != nil || math.IsNaN(percent) {
			return 0, fmt.Errorf("%w: '%s'", ErrSyntax, s)
		}
		if percent < 0 || percent > MaxPercent {
			return 0, fmt.Errorf("%w: percentage must be between 0%% and %d%%", ErrRange, MaxPercent)
		}
		return FromPercent(percent), nil
	}

	digits, base := s, 10
	if hex, ok := cutHexPrefix(s); ok {
		digits, base = hex, 16
	}

	value, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: value must be between 0 and 255 (or 0x00 and 0xFF)", ErrRange)
		}
		return 0, fmt.Errorf("%w: '%s'", ErrSyntax, s)
	}
	if value < 0 || value > MaxValue {
		return 0, fmt.Errorf("%w: value must be between 0 and 255 (or 0x00 and 0xFF)", ErrRange)
	}
	return byte(value), nil
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}
