package scenes

import (
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

const boxHalf = 0.5

// Pyramid stacks Base rows of boxes on a flat ground. Space launches a bomb.
type Pyramid struct {
	Base int

	Boxes []physics.BodyID
}

func (p *Pyramid) Setup(s *session.Session) error {
	ground(s, 40)

	start := physics.V(-float64(p.Base)*boxHalf, boxHalf)
	for row := 0; row < p.Base; row++ {
		pos := start
		for i := row; i < p.Base; i++ {
			p.Boxes = append(p.Boxes, box(s, pos, boxHalf, boxHalf, 5))
			pos.X += 2 * boxHalf * 1.125
		}
		start = start.Add(physics.V(1.125*boxHalf, 2*boxHalf))
	}
	return nil
}

func (p *Pyramid) Keyboard(s *session.Session, key rune) {
	if key == ' ' {
		s.LaunchBomb()
	}
}

func (p *Pyramid) KeyboardUp(*session.Session, rune) {}
