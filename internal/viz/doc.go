// Package viz provides terminal rendering for the benchmark.
//
//   - [Canvas]: braille pixel canvas with per-cell series colours, used by
//     the report charts
//   - [Camera], [Render3D]: perspective projection of the periodic cell
//   - [Model]: Bubble Tea program stepping the argon system live
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume integration
//	R     - Reset to the initial lattice
//	T     - Cycle color themes
//	x/y/z - Rotate the view (shift reverses)
//	+/-   - Zoom
//	>/<   - More or fewer steps per frame
//	Q     - Quit
package viz
