package session

import "github.com/san-kum/physbox/internal/physics"

// Scene builds the initial world of a session. Everything else a scene can
// customise is expressed through the optional interfaces below.
type Scene interface {
	Setup(s *Session) error
}

// Stepper runs after the engine step, before deletions are flushed.
type Stepper interface {
	OnStep(s *Session)
}

// ContactHandler receives begin/end notifications from inside the engine
// step. Implementations must not touch the world; use MarkForDeletion.
type ContactHandler interface {
	BeginContact(s *Session, c physics.Contact)
	EndContact(s *Session, c physics.Contact)
}

// PreSolver sees every pre-solve callback after the contact buffer.
type PreSolver interface {
	PreSolve(s *Session, c physics.Contact, old physics.Manifold)
}

// PostSolver receives the solver impulses of each contact during the step.
type PostSolver interface {
	PostSolve(s *Session, c physics.Contact, impulse physics.ContactImpulse)
}

// JointWatcher is told about joints the engine destroyed implicitly, other
// than the session's own drag joint.
type JointWatcher interface {
	JointDestroyed(s *Session, j physics.JointID)
}

// UnitFactory creates a body of the given unit kind at p. It returns false
// when the kind is not supported.
type UnitFactory interface {
	CreateUnit(s *Session, kind int, p physics.Vec2) (physics.BodyID, bool)
}

// UnitSchema supplies the parameter schema of each unit kind.
type UnitSchema interface {
	UnitParams(kind int) []UnitParam
}

// UnitInspector reports the live parameter values of a body.
type UnitInspector interface {
	InspectUnit(s *Session, body physics.BodyID) []UnitParam
}

// PointerHandler is called after the session has handled a left-button event.
type PointerHandler interface {
	MouseDown(s *Session, p physics.Vec2)
	MouseUp(s *Session, p physics.Vec2)
	MouseMove(s *Session, p physics.Vec2)
}

// KeyHandler receives the keys passed to Keyboard and KeyboardUp.
type KeyHandler interface {
	Keyboard(s *Session, key rune)
	KeyboardUp(s *Session, key rune)
}

// UIUpdater runs from Session.UpdateUI, which hosts call after each step.
type UIUpdater interface {
	UpdateUI(s *Session)
}

// NopScene is a scene with an empty world.
type NopScene struct{}

func (NopScene) Setup(*Session) error { return nil }
