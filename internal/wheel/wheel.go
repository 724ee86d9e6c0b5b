// Package wheel holds the circumference and distance formulas shared by the
// simulator, the renderer and the quiz answer key.
//
// Every caller goes through the same three functions so that a value shown
// on screen, drawn on the ground and expected from the learner can never
// disagree.
package wheel

import (
	"errors"
	"fmt"
	"strings"
)

// PiMode selects which approximation of π is used.
type PiMode string

const (
	// PiDecimal is the classroom decimal approximation 3.14.
	PiDecimal PiMode = "3.14"
	// PiFraction is the classroom fraction approximation 22/7.
	PiFraction PiMode = "22/7"
)

// DefaultPiMode is used when nothing else was chosen.
const DefaultPiMode = PiDecimal

var ErrUnknownPiMode = errors.New("wheel: unknown pi mode")

// Modes lists the supported approximations in display order.
func Modes() []PiMode {
	return []PiMode{PiDecimal, PiFraction}
}

// ParsePiMode accepts "3.14" or "22/7" (surrounding space ignored).
func ParsePiMode(s string) (PiMode, error) {
	switch PiMode(strings.TrimSpace(s)) {
	case PiDecimal:
		return PiDecimal, nil
	case PiFraction:
		return PiFraction, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPiMode, s)
}

// Valid reports whether m is one of the supported modes.
func (m PiMode) Valid() bool {
	return m == PiDecimal || m == PiFraction
}

// Next cycles to the other approximation.
func (m PiMode) Next() PiMode {
	if m == PiDecimal {
		return PiFraction
	}
	return PiDecimal
}

func (m PiMode) String() string { return string(m) }

// PiValue returns the numeric value of the approximation. Unknown modes fall
// back to the decimal approximation.
func PiValue(mode PiMode) float64 {
	if mode == PiFraction {
		return 22.0 / 7.0
	}
	return 3.14
}

// Circumference is 2πr under the given approximation. radius must be positive.
func Circumference(radius float64, mode PiMode) float64 {
	return 2 * PiValue(mode) * radius
}

// Distance is the ground covered by rolling the wheel for revolutions turns.
func Distance(radius, revolutions float64, mode PiMode) float64 {
	return Circumference(radius, mode) * revolutions
}
