package sim

import "time"

// Tick advances the wheel by deltaMs milliseconds of wall time. It does
// nothing while paused or for a negative delta.
func (s *Session) Tick(deltaMs float64) {
	if !s.playing || deltaMs <= 0 {
		return
	}

	dDistance := BaseSpeed * s.speed * (deltaMs / 1000)
	s.revs += dDistance / s.Circumference()

	if s.revs >= s.target {
		s.revs = s.target
		s.complete()
	}
}

// Advance is the per-frame entry point. now is a monotonic frame timestamp;
// the first frame after Start or Reset only records it and moves nothing.
func (s *Session) Advance(now time.Duration) {
	if !s.playing {
		return
	}
	var delta time.Duration
	if s.hasTimestamp {
		delta = now - s.lastTimestamp
	}
	s.lastTimestamp = now
	s.hasTimestamp = true
	s.Tick(float64(delta) / float64(time.Millisecond))
}

// Start plays the run, restarting from zero when the target was reached.
func (s *Session) Start() {
	if s.revs >= s.target {
		s.revs = 0
	}
	s.playing = true
	s.clearTimestamp()
}

// Pause stops the clock and keeps the revolutions rolled.
func (s *Session) Pause() {
	s.playing = false
}

// Toggle pauses a playing run or starts a stopped one.
func (s *Session) Toggle() {
	if s.playing {
		s.Pause()
		return
	}
	s.Start()
}

// Reset stops the run and rolls the wheel back to the start.
func (s *Session) Reset() {
	s.playing = false
	s.revs = 0
	s.clearTimestamp()
}

func (s *Session) clearTimestamp() {
	s.lastTimestamp = 0
	s.hasTimestamp = false
}

func (s *Session) complete() {
	s.playing = false
	s.clearTimestamp()
	s.log.Debug("run complete",
		"revolutions", s.revs,
		"distance_cm", s.CurrentDistance(),
		"pi", string(s.pi))
	s.emitCompletion(s.Snapshot())
}
