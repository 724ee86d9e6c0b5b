// Package viz provides the terminal front end for the rolling wheel.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the Bubble Tea model in free, step or quiz mode
//   - [Canvas]: braille-based pixel canvas implementing render.Surface
//
// # Key Bindings
//
//	Space    - Play/Pause
//	R        - Reset
//	P        - Toggle π
//	S        - Cycle speed
//	Up/Down  - Radius
//	Lft/Rgt  - Revolutions
//	Tab      - Switch mode
//	T        - Cycle color themes
//	?        - Show help overlay
//
// Frames are only scheduled while the wheel is playing; a stopped scene is
// redrawn after each key instead.
package viz
