package scenario

import (
	"errors"
	"math"
	"strconv"

	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/wheel"
)

var (
	ErrNoQuestion  = errors.New("scenario: no question asked")
	ErrAnswered    = errors.New("scenario: question already answered")
	ErrFinished    = errors.New("scenario: script finished")
	ErrEmptyScript = errors.New("scenario: script has no steps")
)

// Controller is the part of a session the drivers use. *sim.Session
// implements it.
type Controller interface {
	SetRadius(r float64) error
	SetTargetRevolutions(n float64) error
	SetSpeedMultiplier(m float64) error
	SetPiMode(mode wheel.PiMode) error
	Start()
	Pause()
	Reset()
	Snapshot() sim.Snapshot
	OnCompletion(fn func(sim.Snapshot)) func()
}

var _ Controller = (*sim.Session)(nil)

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
