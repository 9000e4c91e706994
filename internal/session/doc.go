// Package session implements the per-frame lifecycle of one sandbox
// simulation and the user interaction around it.
//
// A [Session] owns a [physics.World] and advances it with [Session.Step].
// Around the engine it keeps:
//
//   - [ContactBuffer]: contact samples captured during the last step
//   - [TrailRecorder]: recent positions of every dynamic body
//   - [DeletionQueue]: bodies to destroy once the step has finished
//   - [UnitCatalog]: unit kinds, live counts and parameter schemas
//
// Mouse handlers ([Session.MouseDown], [Session.MouseDownRight], ...) drive
// a small state machine: dragging a body with a mouse joint, spawning a
// projectile, or selecting and deleting bodies with the right button.
//
// # Scenes
//
// Scenario-specific behaviour is supplied by a [Scene]. A scene only has to
// build the world in Setup; every other hook is an optional interface
// ([UnitFactory], [ContactHandler], [Stepper], ...) that the session detects
// at runtime.
//
// # Thread Safety
//
// A Session is NOT safe for concurrent use. Input handlers and Step must be
// called from the same goroutine.
package session
