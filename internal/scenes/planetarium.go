package scenes

import (
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

// Planetarium creates unit bodies from the default catalog and exposes
// their parameters for inspection.
type Planetarium struct{}

func (Planetarium) Setup(s *session.Session) error {
	ground(s, 30)
	if err := s.SetCreatingUnit(session.UnitFixedStar); err != nil {
		return err
	}
	s.CreateSelectedUnit(physics.V(0, 8))

	if err := s.SetCreatingUnit(session.UnitPlanet); err != nil {
		return err
	}
	for _, x := range []float64{-6, -3, 3, 6} {
		s.CreateSelectedUnit(physics.V(x, 12))
	}
	return nil
}

func (Planetarium) CreateUnit(s *session.Session, kind int, p physics.Vec2) (physics.BodyID, bool) {
	w := s.World()
	switch kind {
	case session.UnitFixedStar:
		return w.CreateBody(physics.BodyDef{
			Type:     physics.StaticBody,
			Position: p,
			Fixtures: []physics.FixtureDef{{Shape: physics.Circle(1)}},
		}), true
	case session.UnitPlanet:
		return ball(s, p, 0.5, 2), true
	case session.UnitEdge:
		return w.CreateBody(physics.BodyDef{
			Type:     physics.StaticBody,
			Position: p,
			Fixtures: []physics.FixtureDef{{Shape: physics.Edge(physics.V(-2, 0), physics.V(2, 0))}},
		}), true
	case session.UnitComet:
		return w.CreateBody(physics.BodyDef{
			Type:           physics.DynamicBody,
			Position:       p,
			LinearVelocity: physics.V(s.Rand().Float()*10, -5),
			Bullet:         true,
			Fixtures:       []physics.FixtureDef{{Shape: physics.Circle(0.2), Density: 4}},
		}), true
	case session.UnitSatellite:
		return box(s, p, 0.3, 0.3, 1), true
	case session.UnitCylinder:
		return box(s, p, 0.3, 1, 1), true
	default:
		return physics.NoBody, false
	}
}

func (Planetarium) UnitParams(kind int) []session.UnitParam {
	if kind == session.UnitZero {
		return nil
	}
	return []session.UnitParam{
		session.StringParam("name", ""),
		session.FloatParam("mass", 0, "kg"),
		session.FloatParam("x", 0, "m"),
		session.FloatParam("y", 0, "m"),
		session.FloatParam("speed", 0, "m/s"),
	}
}

func (Planetarium) InspectUnit(s *session.Session, body physics.BodyID) []session.UnitParam {
	w := s.World()
	name := "body"
	if kind, ok := s.UnitKindOf(body); ok {
		for _, k := range s.UnitKinds() {
			if k.ID == kind {
				name = k.Name
			}
		}
	}
	p, _ := w.Position(body)
	v, _ := w.Velocity(body)
	return []session.UnitParam{
		session.StringParam("name", name),
		session.FloatParam("mass", w.Mass(body), "kg"),
		session.FloatParam("x", p.X, "m"),
		session.FloatParam("y", p.Y, "m"),
		session.FloatParam("speed", v.Length(), "m/s"),
	}
}
