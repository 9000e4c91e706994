package scenes

import "github.com/san-kum/physbox/internal/session"

// Bombard is a pyramid that launches a bomb every Every steps.
type Bombard struct {
	Pyramid
	Every int

	Launched int
	lastStep int
}

// OnStep also runs on paused frames, so it acts at most once per step count.
func (b *Bombard) OnStep(s *session.Session) {
	n := s.StepCount()
	if b.Every <= 0 || n == 0 || n == b.lastStep || n%b.Every != 0 {
		return
	}
	b.lastStep = n
	s.LaunchBomb()
	b.Launched++
}

func (b *Bombard) UpdateUI(s *session.Session) {
	s.Printf("bombs launched = %d", b.Launched)
}
