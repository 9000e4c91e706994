package session

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/rng"
)

const (
	textLineStart = 30
	textIncrement = 13
)

// Settings are the per-frame controls a host passes to Step.
type Settings struct {
	Hz                 float64
	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
	Continuous         bool
	SubStepping        bool
	AllowSleeping      bool
	Pause              bool
	SingleStep         bool
	DrawStats          bool
	DrawProfile        bool
}

func DefaultSettings() Settings {
	return Settings{
		Hz:                 60,
		VelocityIterations: 8,
		PositionIterations: 3,
		WarmStarting:       true,
		Continuous:         true,
		AllowSleeping:      true,
	}
}

// RightMode selects what a right click on a body does.
type RightMode uint8

const (
	RightNone RightMode = iota
	RightSelect
	RightDelete
)

func (m RightMode) String() string {
	switch m {
	case RightSelect:
		return "select"
	case RightDelete:
		return "delete"
	default:
		return "none"
	}
}

func ParseRightMode(s string) (RightMode, error) {
	switch s {
	case "", "none":
		return RightNone, nil
	case "select":
		return RightSelect, nil
	case "delete":
		return RightDelete, nil
	default:
		return RightNone, fmt.Errorf("session: unknown right mode %q", s)
	}
}

// Config holds the tunables of a session.
type Config struct {
	ID               int
	Title            string
	TrailLength      int
	TrailsEnabled    bool
	DragForceScale   float64
	DragFrequency    float64
	DragDamping      float64
	BombScale        float64
	BombRadius       float64
	BombDensity      float64
	PauseOnRightDown bool
	RightMode        RightMode
	ShowUnitNames    bool
	Seed             int64
	UnitKinds        []UnitKind
}

func DefaultConfig() Config {
	return Config{
		TrailLength:    DefaultTrailLength,
		DragForceScale: 1000,
		DragFrequency:  5,
		DragDamping:    0.7,
		BombScale:      30,
		BombRadius:     0.3,
		BombDensity:    20,
		RightMode:      RightSelect,
		Seed:           1,
	}
}

// TextLine is one diagnostic line with its vertical cursor position.
type TextLine struct {
	Y    int
	Text string
}

// Label names a unit body for display.
type Label struct {
	Body     physics.BodyID
	Position physics.Vec2
	Name     string
}

// Session owns one simulation world and its interaction state.
type Session struct {
	cfg   Config
	log   *zap.Logger
	world physics.World
	scene Scene
	rand  *rng.Source

	ground    physics.BodyID
	contacts  *ContactBuffer
	trails    *TrailRecorder
	deletions *DeletionQueue
	units     *UnitCatalog
	unitOf    map[physics.BodyID]int

	mouseJoint     physics.JointID
	mouseWorld     physics.Vec2
	bomb           physics.BodyID
	bombSpawnPoint physics.Vec2
	bombSpawning   bool
	rightDown      bool
	rightPaused    bool
	selected       physics.BodyID
	selectedParams []UnitParam
	selectedUnit   int
	creatingUnit   int

	stepCount    int
	textLine     int
	lines        []TextLine
	maxProfile   physics.Profile
	totalProfile physics.Profile

	inStep bool
	closed bool
}

// New creates a session around world and runs the scene's Setup. The
// session takes ownership of world and destroys it on Close or on error.
func New(world physics.World, scene Scene, cfg Config) (*Session, error) {
	if scene == nil {
		scene = NopScene{}
	}
	kinds := cfg.UnitKinds
	if kinds == nil {
		kinds = DefaultUnitKinds()
	}
	s := &Session{
		cfg:       cfg,
		log:       zap.NewNop(),
		world:     world,
		scene:     scene,
		rand:      rng.New(cfg.Seed),
		contacts:  NewContactBuffer(),
		trails:    NewTrailRecorder(cfg.TrailLength),
		deletions: NewDeletionQueue(),
		units:     NewUnitCatalog(kinds),
		unitOf:    make(map[physics.BodyID]int),
		textLine:  textLineStart,
	}
	s.trails.SetEnabled(cfg.TrailsEnabled)

	world.SetContactListener(&contactListener{s: s})
	world.SetDestructionListener(&destructionListener{s: s})
	s.ground = world.CreateBody(physics.BodyDef{Type: physics.StaticBody})

	if err := scene.Setup(s); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene setup: %w", err)
	}
	s.InitialUnitParam()
	return s, nil
}

func (s *Session) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log.With(zap.Int("session", s.cfg.ID))
}

func (s *Session) Logger() *zap.Logger { return s.log }

// Configure replaces the session tunables. Identity and the unit catalog are
// fixed at construction and are kept.
func (s *Session) Configure(cfg Config) {
	cfg.ID, cfg.Title, cfg.UnitKinds = s.cfg.ID, s.cfg.Title, s.cfg.UnitKinds
	if cfg.Seed != s.cfg.Seed {
		s.rand = rng.New(cfg.Seed)
	}
	s.cfg = cfg
	s.trails.SetLimit(cfg.TrailLength)
	s.trails.SetEnabled(cfg.TrailsEnabled)
}

func (s *Session) Config() Config { return s.cfg }

func (s *Session) ID() int { return s.cfg.ID }

func (s *Session) Title() string { return s.cfg.Title }

func (s *Session) World() physics.World { return s.world }

func (s *Session) Scene() Scene { return s.scene }

// Ground is the static body drag joints are anchored to.
func (s *Session) Ground() physics.BodyID { return s.ground }

func (s *Session) Rand() *rng.Source { return s.rand }

func (s *Session) StepCount() int { return s.stepCount }

func (s *Session) Closed() bool { return s.closed }

// Step advances the world by one frame. Contacts are captured during the
// engine step, trails are updated afterwards, and deferred deletions run
// last.
func (s *Session) Step(settings *Settings) {
	if s.closed {
		return
	}
	timeStep := 0.0
	if settings.Hz > 0 {
		timeStep = 1 / settings.Hz
	}

	s.lines = s.lines[:0]
	s.textLine = textLineStart
	if s.cfg.Title != "" {
		s.Printf("%s", s.cfg.Title)
	}

	if settings.Pause {
		if settings.SingleStep {
			settings.SingleStep = false
		} else {
			timeStep = 0
		}
		s.Printf("****PAUSED****")
	}
	if s.rightPaused {
		timeStep = 0
	}

	s.world.SetFlags(physics.Flags{
		AllowSleeping: settings.AllowSleeping,
		WarmStarting:  settings.WarmStarting,
		Continuous:    settings.Continuous,
		SubStepping:   settings.SubStepping,
	})

	s.contacts.BeginStep()
	s.inStep = true
	s.world.Step(timeStep, settings.VelocityIterations, settings.PositionIterations)
	s.inStep = false

	if timeStep > 0 {
		s.stepCount++
	}

	p := s.world.Profile()
	s.maxProfile = s.maxProfile.Max(p)
	s.totalProfile = s.totalProfile.Add(p)

	if dropped := s.contacts.Dropped(); dropped > 0 {
		s.log.Warn("contact buffer full", zap.Int("dropped", dropped), zap.Int("step", s.stepCount))
	}

	if settings.DrawStats {
		s.Printf("bodies/joints = %d/%d", len(s.world.Bodies()), len(s.world.Joints()))
		s.Printf("contact points = %d", s.contacts.Len())
	}
	if settings.DrawProfile {
		avg := s.AverageProfile()
		s.Printf("step [ave] (max) = %5.2f [%6.2f] (%6.2f)", p.Step, avg.Step, s.maxProfile.Step)
		s.Printf("collide [ave] (max) = %5.2f [%6.2f] (%6.2f)", p.Collide, avg.Collide, s.maxProfile.Collide)
		s.Printf("solve [ave] (max) = %5.2f [%6.2f] (%6.2f)", p.Solve, avg.Solve, s.maxProfile.Solve)
	}

	if timeStep > 0 {
		s.UpdateTrails()
	}
	if st, ok := s.scene.(Stepper); ok {
		st.OnStep(s)
	}
	s.flush()
}

// DrawTitle starts a new block of diagnostic text with title on top.
func (s *Session) DrawTitle(title string) {
	s.lines = s.lines[:0]
	s.textLine = textLineStart
	s.Printf("%s", title)
}

// Printf adds a diagnostic line at the text cursor and moves the cursor down.
func (s *Session) Printf(format string, args ...any) {
	s.lines = append(s.lines, TextLine{Y: s.textLine, Text: fmt.Sprintf(format, args...)})
	s.textLine += textIncrement
}

// Lines returns the diagnostic text of the current frame.
func (s *Session) Lines() []TextLine { return append([]TextLine(nil), s.lines...) }

// TextLine is the vertical position of the next diagnostic line.
func (s *Session) TextLine() int { return s.textLine }

// ContactPoints returns the samples captured in the last step. The slice is
// read-only and valid until the next Step.
func (s *Session) ContactPoints() []ContactPoint { return s.contacts.Points() }

func (s *Session) MaxProfile() physics.Profile { return s.maxProfile }

func (s *Session) TotalProfile() physics.Profile { return s.totalProfile }

func (s *Session) AverageProfile() physics.Profile {
	if s.stepCount == 0 {
		return physics.Profile{}
	}
	return s.totalProfile.Scale(1 / float64(s.stepCount))
}

func (s *Session) TrailsEnabled() bool { return s.trails.Enabled() }

func (s *Session) SetTrailsEnabled(on bool) {
	s.cfg.TrailsEnabled = on
	s.trails.SetEnabled(on)
}

// UpdateTrails appends the current position of every dynamic body to its
// trail. It does nothing while trails are disabled.
func (s *Session) UpdateTrails() {
	if !s.trails.Enabled() {
		return
	}
	for _, id := range s.world.Bodies() {
		if t, ok := s.world.BodyType(id); !ok || t != physics.DynamicBody {
			continue
		}
		if p, ok := s.world.Position(id); ok {
			s.trails.Record(id, p)
		}
	}
}

// DrawTrails yields the trail segments of every tracked body.
func (s *Session) DrawTrails() iter.Seq2[physics.BodyID, Segment] { return s.trails.Segments() }

func (s *Session) TrailPath(id physics.BodyID) ([]physics.Vec2, bool) { return s.trails.Path(id) }

// TrailBodies lists trailed bodies in the order they were first recorded.
func (s *Session) TrailBodies() []physics.BodyID { return s.trails.Bodies() }

// MarkForDeletion queues body for destruction after the current step. The
// ground body and unknown bodies are refused.
func (s *Session) MarkForDeletion(body physics.BodyID) bool {
	if s.closed || body == s.ground || !s.world.HasBody(body) {
		return false
	}
	return s.deletions.Mark(body)
}

func (s *Session) PendingDeletions() int { return s.deletions.Len() }

// FlushDeletions destroys every queued body. Step calls it last; hosts may
// call it between steps.
func (s *Session) FlushDeletions() error {
	if s.closed {
		return ErrClosed
	}
	if s.inStep {
		return ErrInStep
	}
	s.flush()
	return nil
}

func (s *Session) flush() {
	for _, id := range s.deletions.Drain() {
		s.forget(id)
		if s.world.HasBody(id) {
			s.world.DestroyBody(id)
			s.log.Debug("body destroyed", zap.Uint64("body", uint64(id)))
		}
	}
}

// forget drops every reference the session holds to body.
func (s *Session) forget(body physics.BodyID) {
	s.trails.StopTracking(body)
	if s.selected == body {
		s.selected = physics.NoBody
		s.selectedParams = nil
	}
	if s.bomb == body {
		s.bomb = physics.NoBody
	}
	if kind, ok := s.unitOf[body]; ok {
		_ = s.units.Decrement(kind)
		delete(s.unitOf, body)
	}
}

// ShiftOrigin moves the world origin, keeping recorded trails aligned.
func (s *Session) ShiftOrigin(origin physics.Vec2) {
	if s.closed {
		return
	}
	s.world.ShiftOrigin(origin)
	s.trails.Shift(origin)
	s.mouseWorld = s.mouseWorld.Sub(origin)
	s.bombSpawnPoint = s.bombSpawnPoint.Sub(origin)
}

// InitialUnitParam builds the per-kind parameter schemas. Only the first
// call has an effect.
func (s *Session) InitialUnitParam() {
	var schema func(int) []UnitParam
	if us, ok := s.scene.(UnitSchema); ok {
		schema = us.UnitParams
	}
	s.units.Build(schema)
}

// UpdateUnitParam makes the schema of kind the current one.
func (s *Session) UpdateUnitParam(kind int) bool { return s.units.Select(kind) }

func (s *Session) CurrentUnitParams() []UnitParam {
	params, _ := s.units.Current()
	return params
}

func (s *Session) UnitKinds() []UnitKind { return s.units.Kinds() }

// UnitKindOf reports the unit kind a body was created as.
func (s *Session) UnitKindOf(body physics.BodyID) (int, bool) {
	kind, ok := s.unitOf[body]
	return kind, ok
}

// UnitLabels lists unit bodies with their kind names when unit names are
// shown.
func (s *Session) UnitLabels() []Label {
	if !s.cfg.ShowUnitNames {
		return nil
	}
	var labels []Label
	for _, id := range s.world.Bodies() {
		kind, ok := s.unitOf[id]
		if !ok {
			continue
		}
		k, _ := s.units.Kind(kind)
		p, _ := s.world.Position(id)
		labels = append(labels, Label{Body: id, Position: p, Name: k.Name})
	}
	return labels
}

func (s *Session) SetShowUnitNames(on bool) { s.cfg.ShowUnitNames = on }

// Close tears the world down: drag joint first, then every joint and body,
// then the engine itself. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.mouseJoint != physics.NoJoint {
		s.world.DestroyJoint(s.mouseJoint)
		s.mouseJoint = physics.NoJoint
	}
	for _, j := range s.world.Joints() {
		s.world.DestroyJoint(j)
	}
	for _, b := range s.world.Bodies() {
		s.world.DestroyBody(b)
	}
	s.world.Destroy()

	s.trails.Clear()
	s.deletions.Drain()
	s.unitOf = make(map[physics.BodyID]int)
	s.selected = physics.NoBody
	s.selectedParams = nil
	s.bomb = physics.NoBody
	s.bombSpawning = false
	s.log.Debug("session closed", zap.Int("steps", s.stepCount))
}

type contactListener struct {
	s *Session
}

func (l *contactListener) BeginContact(c physics.Contact) {
	if h, ok := l.s.scene.(ContactHandler); ok {
		h.BeginContact(l.s, c)
	}
}

func (l *contactListener) EndContact(c physics.Contact) {
	if h, ok := l.s.scene.(ContactHandler); ok {
		h.EndContact(l.s, c)
	}
}

func (l *contactListener) PreSolve(c physics.Contact, old physics.Manifold) {
	l.s.contacts.Record(c.FixtureA, c.FixtureB, c.Manifold, old)
	if h, ok := l.s.scene.(PreSolver); ok {
		h.PreSolve(l.s, c, old)
	}
}

func (l *contactListener) PostSolve(c physics.Contact, impulse physics.ContactImpulse) {
	if h, ok := l.s.scene.(PostSolver); ok {
		h.PostSolve(l.s, c, impulse)
	}
}

// destructionListener clears the drag joint when the engine removes it
// together with its body.
type destructionListener struct {
	s *Session
}

func (l *destructionListener) JointDestroyed(j physics.JointID) {
	if j == l.s.mouseJoint {
		l.s.mouseJoint = physics.NoJoint
		return
	}
	if w, ok := l.s.scene.(JointWatcher); ok {
		w.JointDestroyed(l.s, j)
	}
}

func (l *destructionListener) FixtureDestroyed(physics.FixtureID) {}
