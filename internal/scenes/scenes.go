// Package scenes holds the built-in sandboxes and registers them.
package scenes

import (
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/b2"
	"github.com/san-kum/physbox/internal/registry"
	"github.com/san-kum/physbox/internal/session"
)

// Gravity is the world gravity of every built-in scene.
var Gravity = physics.V(0, -10)

type builtin struct {
	category string
	name     string
	scene    func() session.Scene
}

var builtins = []builtin{
	{"basic", "pyramid", func() session.Scene { return &Pyramid{Base: 10} }},
	{"basic", "bombard", func() session.Scene { return &Bombard{Pyramid: Pyramid{Base: 8}, Every: 90} }},
	{"contacts", "pit", func() session.Scene { return &Pit{Drops: 12} }},
	{"units", "planetarium", func() session.Scene { return &Planetarium{} }},
}

// RegisterAll adds every built-in scene to r. Each factory builds a fresh
// Box2D world and session from base.
func RegisterAll(r *registry.Registry, base session.Config) error {
	for _, b := range builtins {
		cfg := base
		cfg.ID = r.Len()
		cfg.Title = b.category + "/" + b.name
		if _, err := r.Register(b.category, b.name, func() (*session.Session, error) {
			return session.New(b2.NewWorld(Gravity), b.scene(), cfg)
		}); err != nil {
			return err
		}
	}
	return nil
}

func ground(s *session.Session, halfWidth float64) physics.BodyID {
	return s.World().CreateBody(physics.BodyDef{
		Type: physics.StaticBody,
		Fixtures: []physics.FixtureDef{{
			Shape:    physics.Edge(physics.V(-halfWidth, 0), physics.V(halfWidth, 0)),
			Friction: 0.6,
		}},
	})
}

func box(s *session.Session, p physics.Vec2, hw, hh, density float64) physics.BodyID {
	return s.World().CreateBody(physics.BodyDef{
		Type:     physics.DynamicBody,
		Position: p,
		Fixtures: []physics.FixtureDef{{Shape: physics.Box(hw, hh), Density: density, Friction: 0.6}},
	})
}

func ball(s *session.Session, p physics.Vec2, r, density float64) physics.BodyID {
	return s.World().CreateBody(physics.BodyDef{
		Type:     physics.DynamicBody,
		Position: p,
		Fixtures: []physics.FixtureDef{{Shape: physics.Circle(r), Density: density, Friction: 0.3, Restitution: 0.2}},
	})
}
