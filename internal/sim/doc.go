// Package sim owns the rolling-wheel simulation state and its frame clock.
//
// The package provides:
//
//   - [Session]: the single mutable aggregate (radius, revolutions, speed,
//     π mode, viewport and the derived scale/interval)
//   - the clock operations [Session.Tick], [Session.Advance], [Session.Start],
//     [Session.Pause] and [Session.Reset]
//   - [Snapshot]: an immutable copy of everything a frame reads
//   - [Animator]: runs clock, render and display for one frame in that order
//   - [RunFixed]: a deterministic fixed-step driver for headless runs
//
// # Example
//
//	s := sim.New()
//	a := sim.NewAnimator(s, draw, show)
//	s.Start()
//	_, err := sim.RunFixed(ctx, a, time.Second/60, 0)
//
// # Thread Safety
//
// Session is NOT thread-safe. Front ends call it from their UI goroutine only;
// completion listeners run synchronously inside the call that completed the run.
package sim
