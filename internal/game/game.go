// Package game defines the game variants whose sequence players use slightly
// different instruction sets.
package game

import (
	"fmt"
	"strings"
)

// Variant identifies the target instruction set of a sequence.
type Variant uint8

// Supported variants. Any is only used as a gate value meaning no restriction.
const (
	Any Variant = iota
	OOT
	MM
)

// Variants lists the selectable variants.
var Variants = []Variant{OOT, MM}

// String returns the short name of the variant.
func (v Variant) String() string {
	switch v {
	case OOT:
		return "oot"
	case MM:
		return "mm"
	default:
		return "any"
	}
}

// Matches returns whether an instruction gated to v is valid for the active variant.
func (v Variant) Matches(active Variant) bool {
	return v == Any || v == active
}

// FromString parses a variant name case-insensitively.
func FromString(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	valid := make([]string, 0, len(Variants))
	for _, variant := range Variants {
		if variant.String() == name {
			return variant, nil
		}
		valid = append(valid, variant.String())
	}
	return Any, fmt.Errorf("unsupported game '%s', valid options: %s", s, strings.Join(valid, ", "))
}
