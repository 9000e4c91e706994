package session_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/physicstest"
	"github.com/san-kum/physbox/internal/session"
)

type unitScene struct{}

func (unitScene) Setup(*session.Session) error { return nil }

func (unitScene) CreateUnit(s *session.Session, kind int, p physics.Vec2) (physics.BodyID, bool) {
	if kind == session.UnitEdge {
		return physics.NoBody, false
	}
	return s.World().CreateBody(physics.BodyDef{
		Type:     physics.DynamicBody,
		Position: p,
		Fixtures: []physics.FixtureDef{{Shape: physics.Circle(0.5), Density: 1}},
	}), true
}

func (unitScene) UnitParams(kind int) []session.UnitParam {
	return []session.UnitParam{
		session.StringParam("name", "body"),
		session.FloatParam("mass", 1, "kg"),
		session.IntParam("id", kind, ""),
	}
}

var _ = Describe("Interaction", func() {
	var (
		world *physicstest.World
		s     *session.Session
		box   physics.BodyID
	)

	BeforeEach(func() {
		world = physicstest.NewWorld(physics.V(0, -10))
		var err error
		s, err = session.New(world, unitScene{}, session.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		box = world.CreateBody(physics.BodyDef{
			Type:     physics.DynamicBody,
			Position: physics.V(0, 5),
			Fixtures: []physics.FixtureDef{{Shape: physics.Box(1, 1), Density: 2}},
		})
	})

	AfterEach(func() {
		s.Close()
	})

	It("starts idle", func() {
		Expect(s.Mode()).To(Equal(session.ModeIdle))
	})

	Describe("dragging", func() {
		It("grabs the dynamic body under the cursor", func() {
			s.MouseDown(physics.V(0.5, 5))

			Expect(s.Mode()).To(Equal(session.ModeDragging))
			j, ok := s.MouseJoint()
			Expect(ok).To(BeTrue())
			joint, ok := world.Joint(j)
			Expect(ok).To(BeTrue())
			Expect(joint.Def.Body).To(Equal(box))
			Expect(joint.Def.Ground).To(Equal(s.Ground()))
			Expect(joint.Def.MaxForce).To(BeNumerically("~", 1000*8))
			Expect(joint.Def.FrequencyHz).To(Equal(5.0))
			Expect(joint.Def.DampingRatio).To(Equal(0.7))
		})

		It("ignores empty space and static bodies", func() {
			world.CreateBody(physics.BodyDef{
				Type:     physics.StaticBody,
				Position: physics.V(10, 0),
				Fixtures: []physics.FixtureDef{{Shape: physics.Box(1, 1)}},
			})
			s.MouseDown(physics.V(-10, -10))
			Expect(s.Mode()).To(Equal(session.ModeIdle))
			s.MouseDown(physics.V(10, 0))
			Expect(s.Mode()).To(Equal(session.ModeIdle))
			Expect(world.CreatedJoints).To(BeEmpty())
		})

		It("keeps a single drag joint", func() {
			s.MouseDown(physics.V(0, 5))
			s.MouseDown(physics.V(0, 5))
			Expect(world.CreatedJoints).To(HaveLen(1))
		})

		It("moves the target and releases on mouse up", func() {
			s.MouseDown(physics.V(0, 5))
			j, _ := s.MouseJoint()

			s.MouseMove(physics.V(2, 3))
			joint, _ := world.Joint(j)
			Expect(joint.Def.Target).To(Equal(physics.V(2, 3)))
			Expect(s.MouseWorld()).To(Equal(physics.V(2, 3)))

			s.MouseUp(physics.V(2, 3))
			Expect(s.Mode()).To(Equal(session.ModeIdle))
			Expect(world.DestroyedJoints).To(ContainElement(j))
		})

		It("forgets the joint when the dragged body is deleted", func() {
			s.MouseDown(physics.V(0, 5))
			Expect(s.MarkForDeletion(box)).To(BeTrue())
			Expect(s.FlushDeletions()).To(Succeed())

			_, ok := s.MouseJoint()
			Expect(ok).To(BeFalse())
			Expect(s.Mode()).To(Equal(session.ModeIdle))
			Expect(func() { s.MouseUp(physics.V(0, 0)) }).NotTo(Panic())
		})
	})

	Describe("bombs", func() {
		It("launches from the spawn point with scaled velocity", func() {
			s.ShiftMouseDown(physics.V(0, 0))
			Expect(s.Mode()).To(Equal(session.ModeBombSpawning))

			s.MouseUp(physics.V(-1, 0))
			Expect(s.Mode()).To(Equal(session.ModeIdle))

			bomb, ok := s.Bomb()
			Expect(ok).To(BeTrue())
			b, ok := world.Body(bomb)
			Expect(ok).To(BeTrue())
			Expect(b.Position).To(Equal(physics.V(0, 0)))
			Expect(b.Velocity).To(Equal(physics.V(30, 0)))
			Expect(b.Bullet).To(BeTrue())
		})

		It("does not spawn while dragging", func() {
			s.MouseDown(physics.V(0, 5))
			s.ShiftMouseDown(physics.V(3, 3))
			_, spawning := s.BombSpawnPoint()
			Expect(spawning).To(BeFalse())
			Expect(s.Mode()).To(Equal(session.ModeDragging))
		})

		It("fires random bombs towards the origin", func() {
			bomb := s.LaunchBomb()
			b, ok := world.Body(bomb)
			Expect(ok).To(BeTrue())
			Expect(b.Position.Y).To(Equal(30.0))
			Expect(b.Position.X).To(BeNumerically(">=", -15))
			Expect(b.Position.X).To(BeNumerically("<=", 15))
			Expect(b.Velocity).To(Equal(b.Position.Scale(-5)))
		})

		It("replaces the reference without destroying the old bomb", func() {
			first := s.LaunchBombAt(physics.V(1, 1), physics.Vec2{})
			second := s.LaunchBombAt(physics.V(2, 2), physics.Vec2{})

			current, _ := s.Bomb()
			Expect(current).To(Equal(second))
			Expect(world.HasBody(first)).To(BeTrue())
		})

		It("clears the reference when the bomb is deleted", func() {
			bomb := s.LaunchBombAt(physics.V(1, 1), physics.Vec2{})
			s.MarkForDeletion(bomb)
			Expect(s.FlushDeletions()).To(Succeed())
			_, ok := s.Bomb()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("right click", func() {
		It("selects and keeps the selection after release", func() {
			s.MouseDownRight(physics.V(0, 5))
			Expect(s.Mode()).To(Equal(session.ModeRightTargeting))
			sel, ok := s.SelectedBody()
			Expect(ok).To(BeTrue())
			Expect(sel).To(Equal(box))

			s.MouseUpRight(physics.V(0, 5))
			Expect(s.Mode()).To(Equal(session.ModeIdle))
			_, ok = s.SelectedBody()
			Expect(ok).To(BeTrue())
		})

		It("ignores empty space", func() {
			s.MouseDownRight(physics.V(40, 40))
			_, ok := s.SelectedBody()
			Expect(ok).To(BeFalse())
		})

		It("does nothing in none mode", func() {
			s.SetRightMode(session.RightNone)
			s.MouseDownRight(physics.V(0, 5))
			_, ok := s.SelectedBody()
			Expect(ok).To(BeFalse())
			Expect(s.PendingDeletions()).To(BeZero())
		})

		It("pauses the simulation while held", func() {
			cfg := s.Config()
			cfg.PauseOnRightDown = true
			s.Configure(cfg)
			settings := session.DefaultSettings()

			s.MouseDownRight(physics.V(0, 5))
			Expect(s.RightPaused()).To(BeTrue())
			s.Step(&settings)
			Expect(world.LastDt).To(BeZero())
			Expect(s.StepCount()).To(BeZero())

			s.MouseUpRight(physics.V(0, 5))
			Expect(s.RightPaused()).To(BeFalse())
			s.Step(&settings)
			Expect(s.StepCount()).To(Equal(1))
		})

		It("deletes in delete mode after the step", func() {
			s.SetTrailsEnabled(true)
			settings := session.DefaultSettings()
			s.Step(&settings)
			_, tracked := s.TrailPath(box)
			Expect(tracked).To(BeTrue())

			s.SetRightMode(session.RightDelete)
			s.MouseDownRight(physics.V(0, 5))

			Expect(s.PendingDeletions()).To(Equal(1))
			_, tracked = s.TrailPath(box)
			Expect(tracked).To(BeFalse())
			Expect(world.HasBody(box)).To(BeTrue())

			s.MouseUpRight(physics.V(0, 5))
			s.Step(&settings)
			Expect(world.HasBody(box)).To(BeFalse())
			Expect(world.DestroyedBodies).To(Equal([]physics.BodyID{box}))
		})
	})

	Describe("units", func() {
		It("counts created units and fills the scratch list on select", func() {
			Expect(s.SetCreatingUnit(session.UnitPlanet)).To(Succeed())
			body, ok := s.CreateSelectedUnit(physics.V(5, 5))
			Expect(ok).To(BeTrue())
			Expect(s.UnitKinds()[session.UnitPlanet].Count).To(Equal(1))

			s.MouseDownRight(physics.V(5, 5))
			s.MouseUpRight(physics.V(5, 5))
			sel, _ := s.SelectedBody()
			Expect(sel).To(Equal(body))
			Expect(s.SelectedUnit()).To(Equal(session.UnitPlanet))

			params := s.SelectedParams()
			Expect(params).To(HaveLen(3))
			Expect(params[2].Int).To(Equal(session.UnitPlanet))

			Expect(s.SetSelectedParam(1, "2.5")).To(Succeed())
			Expect(s.SelectedParams()[1].Float).To(Equal(2.5))
			Expect(s.SelectedParams()[1].Unit).To(Equal("kg"))

			err := s.SetSelectedParam(5, "x")
			Expect(errors.Is(err, session.ErrParamIndex)).To(BeTrue())
			err = s.SetSelectedParam(1, "heavy")
			Expect(errors.Is(err, session.ErrParamValue)).To(BeTrue())
		})

		It("decrements the count when a unit is deleted", func() {
			Expect(s.SetCreatingUnit(session.UnitComet)).To(Succeed())
			body, _ := s.CreateSelectedUnit(physics.V(5, 5))
			s.SelectBody(body)

			s.MarkForDeletion(body)
			Expect(s.FlushDeletions()).To(Succeed())

			Expect(s.UnitKinds()[session.UnitComet].Count).To(BeZero())
			_, ok := s.SelectedBody()
			Expect(ok).To(BeFalse())
			Expect(s.SelectedParams()).To(BeEmpty())
		})

		It("leaves counts alone when the factory declines", func() {
			Expect(s.SetCreatingUnit(session.UnitEdge)).To(Succeed())
			_, ok := s.CreateSelectedUnit(physics.V(5, 5))
			Expect(ok).To(BeFalse())
			Expect(s.UnitKinds()[session.UnitEdge].Count).To(BeZero())
		})

		It("rejects unknown kinds", func() {
			err := s.SetCreatingUnit(99)
			Expect(errors.Is(err, session.ErrUnknownUnit)).To(BeTrue())
		})

		It("switches the current schema", func() {
			Expect(s.CurrentUnitParams()).To(BeEmpty())
			Expect(s.UpdateUnitParam(session.UnitSatellite)).To(BeTrue())
			params := s.CurrentUnitParams()
			Expect(params).To(HaveLen(3))
			Expect(params[2].Int).To(Equal(session.UnitSatellite))
			Expect(s.UpdateUnitParam(42)).To(BeFalse())
		})
	})
})
