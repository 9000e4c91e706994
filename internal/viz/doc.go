// Package viz shows a session in the terminal with Bubble Tea.
//
// [Model] steps one session per tick and draws it on a braille [Canvas]:
// bodies from their shapes, trails, contact points and the drag or bomb
// cursor. The mouse drives the session's interaction controller, keys toggle
// settings or reach the scene. [Picker] lists the registered sessions and
// opens one in a Model.
//
// # Key Bindings
//
//	P     - Pause/Resume
//	N     - Single step
//	T     - Toggle trails
//	M     - Cycle right-click mode
//	Tab   - Next unit kind, C creates it at the cursor
//	?     - Show help
package viz
