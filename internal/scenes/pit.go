package scenes

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

// Pit drops balls onto a floor that swallows whatever touches it.
type Pit struct {
	Drops int

	floor      physics.BodyID
	dropped    int
	lastStep   int
	removed    int
	touching   int
	maxImpulse float64
}

func (p *Pit) Setup(s *session.Session) error {
	p.floor = s.World().CreateBody(physics.BodyDef{
		Type:     physics.StaticBody,
		Position: physics.V(0, -0.5),
		Fixtures: []physics.FixtureDef{{Shape: physics.Box(20, 0.5)}},
	})
	return nil
}

func (p *Pit) Floor() physics.BodyID { return p.floor }

func (p *Pit) Removed() int { return p.removed }

func (p *Pit) OnStep(s *session.Session) {
	n := s.StepCount()
	if p.dropped >= p.Drops || n == p.lastStep || n%20 != 1 {
		return
	}
	p.lastStep = n
	ball(s, physics.V(s.Rand().Range(-10, 10), 8), 0.4, 1)
	p.dropped++
}

func (p *Pit) BeginContact(s *session.Session, c physics.Contact) {
	p.touching++
	switch p.floor {
	case c.BodyA:
		if s.MarkForDeletion(c.BodyB) {
			p.removed++
		}
	case c.BodyB:
		if s.MarkForDeletion(c.BodyA) {
			p.removed++
		}
	}
}

func (p *Pit) EndContact(*session.Session, physics.Contact) {
	p.touching--
}

func (p *Pit) PostSolve(_ *session.Session, _ physics.Contact, impulse physics.ContactImpulse) {
	for _, n := range impulse.NormalImpulses {
		p.maxImpulse = math.Max(p.maxImpulse, n)
	}
}

func (p *Pit) UpdateUI(s *session.Session) {
	s.Printf("dropped = %d, removed = %d", p.dropped, p.removed)
	s.Printf("max impulse = %.2f", p.maxImpulse)
}
