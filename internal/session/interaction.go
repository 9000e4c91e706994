package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/physics"
)

// Mode is the state of pointer interaction.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeBombSpawning
	ModeRightTargeting
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeBombSpawning:
		return "bomb spawning"
	case ModeRightTargeting:
		return "right targeting"
	default:
		return "idle"
	}
}

func (s *Session) Mode() Mode {
	switch {
	case s.mouseJoint != physics.NoJoint:
		return ModeDragging
	case s.bombSpawning:
		return ModeBombSpawning
	case s.rightDown:
		return ModeRightTargeting
	default:
		return ModeIdle
	}
}

func (s *Session) RightMode() RightMode { return s.cfg.RightMode }

func (s *Session) SetRightMode(m RightMode) { s.cfg.RightMode = m }

// MouseWorld is the last cursor position in world coordinates.
func (s *Session) MouseWorld() physics.Vec2 { return s.mouseWorld }

func (s *Session) MouseJoint() (physics.JointID, bool) {
	return s.mouseJoint, s.mouseJoint != physics.NoJoint
}

// RightPaused reports whether a held right button is pausing the simulation.
func (s *Session) RightPaused() bool { return s.rightPaused }

func (s *Session) pick(p physics.Vec2, accept func(physics.BodyID) bool) (physics.BodyID, bool) {
	for _, id := range s.world.QueryPoint(p) {
		if id == s.ground {
			continue
		}
		if accept == nil || accept(id) {
			return id, true
		}
	}
	return physics.NoBody, false
}

func (s *Session) isDynamic(id physics.BodyID) bool {
	t, ok := s.world.BodyType(id)
	return ok && t == physics.DynamicBody
}

// MouseDown grabs the dynamic body under p with a drag joint. It only acts
// from idle.
func (s *Session) MouseDown(p physics.Vec2) {
	s.mouseWorld = p
	if s.closed || s.Mode() != ModeIdle {
		return
	}
	if body, ok := s.pick(p, s.isDynamic); ok {
		j := s.world.CreateMouseJoint(physics.MouseJointDef{
			Ground:       s.ground,
			Body:         body,
			Target:       p,
			MaxForce:     s.cfg.DragForceScale * s.world.Mass(body),
			FrequencyHz:  s.cfg.DragFrequency,
			DampingRatio: s.cfg.DragDamping,
		})
		if j != physics.NoJoint {
			s.mouseJoint = j
			s.world.SetAwake(body, true)
			s.log.Debug("drag started", zap.Uint64("body", uint64(body)))
		}
	}
	if h, ok := s.scene.(PointerHandler); ok {
		h.MouseDown(s, p)
	}
}

func (s *Session) MouseMove(p physics.Vec2) {
	s.mouseWorld = p
	if s.closed {
		return
	}
	if s.mouseJoint != physics.NoJoint {
		s.world.SetMouseTarget(s.mouseJoint, p)
	}
	if h, ok := s.scene.(PointerHandler); ok {
		h.MouseMove(s, p)
	}
}

// MouseUp releases the drag joint and completes a pending bomb spawn at p.
func (s *Session) MouseUp(p physics.Vec2) {
	s.mouseWorld = p
	if s.closed {
		return
	}
	if s.mouseJoint != physics.NoJoint {
		s.world.DestroyJoint(s.mouseJoint)
		s.mouseJoint = physics.NoJoint
		s.log.Debug("drag released")
	}
	if s.bombSpawning {
		s.CompleteBombSpawn(p)
	}
	if h, ok := s.scene.(PointerHandler); ok {
		h.MouseUp(s, p)
	}
}

// ShiftMouseDown starts a bomb spawn at p unless a body is being dragged.
func (s *Session) ShiftMouseDown(p physics.Vec2) {
	s.mouseWorld = p
	if s.mouseJoint != physics.NoJoint {
		return
	}
	s.SpawnBomb(p)
}

func (s *Session) MouseDownRight(p physics.Vec2) {
	s.mouseWorld = p
	if s.closed || s.mouseJoint != physics.NoJoint || s.bombSpawning {
		return
	}
	s.rightDown = true
	if s.cfg.PauseOnRightDown {
		s.rightPaused = true
	}
	body, ok := s.pick(p, nil)
	if !ok {
		return
	}
	switch s.cfg.RightMode {
	case RightSelect:
		s.SelectBody(body)
	case RightDelete:
		s.DeleteBody(body)
	}
}

// MouseUpRight ends right targeting. The selection is kept.
func (s *Session) MouseUpRight(p physics.Vec2) {
	s.mouseWorld = p
	s.rightDown = false
	s.rightPaused = false
}

// SelectBody makes body the selected one and fills the scratch parameter
// list with its live values, or with its kind's schema when the scene
// cannot inspect it.
func (s *Session) SelectBody(body physics.BodyID) {
	if body == s.ground || !s.world.HasBody(body) {
		return
	}
	s.selected = body
	s.selectedParams = nil
	kind, isUnit := s.unitOf[body]
	if isUnit {
		s.selectedUnit = kind
	}
	if in, ok := s.scene.(UnitInspector); ok {
		s.selectedParams = cloneParams(in.InspectUnit(s, body))
	} else if isUnit {
		s.selectedParams, _ = s.units.Schema(kind)
	}
	s.log.Debug("body selected", zap.Uint64("body", uint64(body)), zap.Int("params", len(s.selectedParams)))
}

// DeleteBody marks body for deletion and drops its trail and selection now.
func (s *Session) DeleteBody(body physics.BodyID) {
	if !s.MarkForDeletion(body) {
		return
	}
	s.trails.StopTracking(body)
	if s.selected == body {
		s.selected = physics.NoBody
		s.selectedParams = nil
	}
	s.log.Debug("body marked for deletion", zap.Uint64("body", uint64(body)))
}

func (s *Session) SelectedBody() (physics.BodyID, bool) {
	return s.selected, s.selected != physics.NoBody
}

// SelectedParams returns a copy of the scratch parameter list.
func (s *Session) SelectedParams() []UnitParam { return cloneParams(s.selectedParams) }

// SetSelectedParam parses text into scratch entry i.
func (s *Session) SetSelectedParam(i int, text string) error {
	if i < 0 || i >= len(s.selectedParams) {
		return fmt.Errorf("%w: %d of %d", ErrParamIndex, i, len(s.selectedParams))
	}
	return s.selectedParams[i].Parse(text)
}

// SelectedUnit is the kind of the most recently selected unit body.
func (s *Session) SelectedUnit() int { return s.selectedUnit }

func (s *Session) Bomb() (physics.BodyID, bool) { return s.bomb, s.bomb != physics.NoBody }

func (s *Session) BombSpawnPoint() (physics.Vec2, bool) { return s.bombSpawnPoint, s.bombSpawning }

// LaunchBomb fires a bomb from a random point above the origin towards it.
func (s *Session) LaunchBomb() physics.BodyID {
	p := physics.V(s.rand.Range(-15, 15), 30)
	return s.LaunchBombAt(p, p.Scale(-5))
}

// LaunchBombAt creates a bomb at position with velocity. The previous bomb
// is left in the world; only the tracked reference moves.
func (s *Session) LaunchBombAt(position, velocity physics.Vec2) physics.BodyID {
	if s.closed {
		return physics.NoBody
	}
	s.bomb = s.world.CreateBody(physics.BodyDef{
		Type:           physics.DynamicBody,
		Position:       position,
		LinearVelocity: velocity,
		Bullet:         true,
		Fixtures: []physics.FixtureDef{{
			Shape:   physics.Circle(s.cfg.BombRadius),
			Density: s.cfg.BombDensity,
		}},
	})
	s.log.Debug("bomb launched", zap.Uint64("body", uint64(s.bomb)),
		zap.Float64("x", position.X), zap.Float64("y", position.Y))
	return s.bomb
}

func (s *Session) SpawnBomb(p physics.Vec2) {
	if s.closed || s.mouseJoint != physics.NoJoint {
		return
	}
	s.bombSpawnPoint = p
	s.bombSpawning = true
}

// CompleteBombSpawn launches the pending bomb from its spawn point with a
// velocity proportional to the drag from the spawn point to p.
func (s *Session) CompleteBombSpawn(p physics.Vec2) (physics.BodyID, bool) {
	if !s.bombSpawning {
		return physics.NoBody, false
	}
	s.bombSpawning = false
	vel := s.bombSpawnPoint.Sub(p).Scale(s.cfg.BombScale)
	return s.LaunchBombAt(s.bombSpawnPoint, vel), true
}

func (s *Session) CreatingUnit() int { return s.creatingUnit }

func (s *Session) SetCreatingUnit(kind int) error {
	if _, ok := s.units.Kind(kind); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, kind)
	}
	s.creatingUnit = kind
	return nil
}

// CreateSelectedUnit asks the scene to create a unit of the creating kind
// at p and counts it.
func (s *Session) CreateSelectedUnit(p physics.Vec2) (physics.BodyID, bool) {
	if s.closed {
		return physics.NoBody, false
	}
	f, ok := s.scene.(UnitFactory)
	if !ok {
		return physics.NoBody, false
	}
	kind := s.creatingUnit
	if _, ok := s.units.Kind(kind); !ok {
		return physics.NoBody, false
	}
	body, ok := f.CreateUnit(s, kind, p)
	if !ok || body == physics.NoBody {
		return physics.NoBody, false
	}
	_ = s.units.Increment(kind)
	s.unitOf[body] = kind
	s.log.Debug("unit created", zap.Int("kind", kind), zap.Uint64("body", uint64(body)))
	return body, true
}

func (s *Session) Keyboard(key rune) {
	if h, ok := s.scene.(KeyHandler); ok && !s.closed {
		h.Keyboard(s, key)
	}
}

func (s *Session) KeyboardUp(key rune) {
	if h, ok := s.scene.(KeyHandler); ok && !s.closed {
		h.KeyboardUp(s, key)
	}
}

func (s *Session) UpdateUI() {
	if h, ok := s.scene.(UIUpdater); ok && !s.closed {
		h.UpdateUI(s)
	}
}
