// Package viz renders stored simulation frames in the terminal.
//
//   - [Canvas]: Braille-based dot canvas, 2x4 dots per cell
//   - [Viewport]: world rectangle mapped onto a canvas
//   - [Browser]: Bubble Tea model that steps through the frames of a run
//
// # Key Bindings
//
//	Space   - Play/Pause
//	← → h l - Previous/next frame
//	Home/End, g/G - First/last frame
//	+ -     - Zoom in/out
//	f       - Refit viewport to the current frame
//	p       - Toggle trails
//	t       - Cycle color themes
//	q       - Quit
package viz
