// Package viz provides a terminal viewer for truss structures.
//
// The viewer draws the structure on a Braille [Canvas], colors members by
// force sense and re-solves after every edit. It is built on Bubble Tea.
//
// # Key Bindings
//
//	Tab     - Switch between joint and beam selection
//	j/k     - Select next/previous element
//	w/a/s/d - Nudge the selected joint's load by one load step
//	x       - Clear all loads
//	Space   - Toggle anchor on the selected joint
//	+/-     - Double/halve the selected beam's area
//	u       - Undo the last placed beam or joint
//	T       - Cycle color themes
//	q       - Quit
package viz
