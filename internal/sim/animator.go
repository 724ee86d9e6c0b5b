package sim

import (
	"context"
	"time"
)

// Animator runs one frame at a time: clock, then render, then display, all
// reading the same snapshot.
type Animator struct {
	session *Session
	render  func(Snapshot)
	display func(Snapshot)
	frames  int
}

// NewAnimator wires a session to its render and display stages. Either stage
// may be nil.
func NewAnimator(s *Session, render, display func(Snapshot)) *Animator {
	return &Animator{session: s, render: render, display: display}
}

// Session returns the session the animator drives.
func (a *Animator) Session() *Session { return a.session }

// Frames counts frames run so far.
func (a *Animator) Frames() int { return a.frames }

// Frame advances the clock to now, draws and updates the display. It reports
// whether another frame should be scheduled: the loop idles once playback is
// stopped with the wheel back at the start.
func (a *Animator) Frame(now time.Duration) bool {
	a.session.Advance(now)
	snap := a.session.Snapshot()
	a.Draw(snap)
	a.frames++
	return snap.Playing || snap.Revolutions != 0
}

// Draw renders and displays snap without moving the clock. Front ends call it
// after a mutator so a stopped scene still reflects the change.
func (a *Animator) Draw(snap Snapshot) {
	if a.render != nil {
		a.render(snap)
	}
	if a.display != nil {
		a.display(snap)
	}
}

// Redraw draws the current state without moving the clock.
func (a *Animator) Redraw() {
	a.Draw(a.session.Snapshot())
}

// RunFixed drives a playing session with frames step apart in simulated time
// until the run stops. maxFrames <= 0 means no limit. It returns the number
// of frames run.
func RunFixed(ctx context.Context, a *Animator, step time.Duration, maxFrames int) (int, error) {
	if step <= 0 {
		step = time.Second / 60
	}
	var now time.Duration
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ErrCanceled
		default:
		}

		more := a.Frame(now)
		n++
		if !a.session.Playing() || !more {
			return n, nil
		}
		if maxFrames > 0 && n >= maxFrames {
			return n, ErrFrameLimit
		}
		now += step
	}
}
