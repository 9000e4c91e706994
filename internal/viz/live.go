package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/session"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// canvasTop and canvasLeft are the padding around the canvas, in cells.
	canvasTop  = 1
	canvasLeft = 2
)

type TickMsg time.Time

// StepHook runs after every step that advanced the session. An error stops
// the program.
type StepHook func(step int, s *session.Session) error

// Model drives one session from a terminal: ticks step it, keys and the
// mouse feed its interaction controller.
type Model struct {
	sess     *session.Session
	settings session.Settings
	canvas   *Canvas
	view     Viewport
	theme    Theme
	hook     StepHook
	log      *zap.Logger

	pressed tea.MouseButton

	energyHistory  []float64
	stepHistory    []float64
	contactHistory []float64

	paramCursor int
	editing     bool
	editBuf     string
	status      string
	showHelp    bool
	err         error
}

func NewModel(s *session.Session, settings session.Settings) Model {
	c := NewCanvas(width, height)
	m := Model{
		sess:           s,
		settings:       settings,
		canvas:         c,
		view:           NewViewport(c),
		theme:          ThemeCyberpunk,
		log:            s.Logger(),
		pressed:        tea.MouseButtonNone,
		energyHistory:  make([]float64, 0, historyCapacity),
		stepHistory:    make([]float64, 0, historyCapacity),
		contactHistory: make([]float64, 0, historyCapacity),
	}
	m.draw()
	return m
}

func (m Model) WithStepHook(h StepHook) Model {
	m.hook = h
	return m
}

func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) Session() *session.Session { return m.sess }

func (m Model) Settings() session.Settings { return m.settings }

// Err is the step hook failure that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	hz := m.settings.Hz
	if hz <= 0 {
		hz = 60
	}
	return tea.Tick(time.Duration(float64(time.Second)/hz), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		m.draw()
	case TickMsg:
		if err := m.step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// step advances the session once and samples the side-panel plots.
func (m *Model) step() error {
	before := m.sess.StepCount()
	m.sess.Step(&m.settings)
	m.sess.UpdateUI()

	if m.sess.StepCount() != before {
		w := m.sess.World()
		m.energyHistory = pushHistory(m.energyHistory, metrics.KineticEnergy(w))
		m.stepHistory = pushHistory(m.stepHistory, w.Profile().Step)
		m.contactHistory = pushHistory(m.contactHistory, float64(len(m.sess.ContactPoints())))
		if m.hook != nil {
			if err := m.hook(m.sess.StepCount(), m.sess); err != nil {
				return fmt.Errorf("step %d: %w", m.sess.StepCount(), err)
			}
		}
	}
	m.draw()
	return nil
}

func keyRune(msg tea.KeyMsg) (rune, bool) {
	switch {
	case msg.Type == tea.KeySpace:
		return ' ', true
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt:
		return msg.Runes[0], true
	}
	return 0, false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		m.editKey(msg)
		return m, nil
	}
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "p":
		m.settings.Pause = !m.settings.Pause
	case "n":
		m.settings.Pause = true
		m.settings.SingleStep = true
	case "t":
		m.sess.SetTrailsEnabled(!m.sess.TrailsEnabled())
	case "T":
		m.theme = NextTheme(m.theme)
	case "u":
		m.sess.SetShowUnitNames(!m.sess.Config().ShowUnitNames)
	case "m":
		m.sess.SetRightMode((m.sess.RightMode() + 1) % 3)
	case "s":
		m.settings.DrawStats = !m.settings.DrawStats
	case "f":
		m.settings.DrawProfile = !m.settings.DrawProfile
	case "tab":
		m.cycleUnit()
	case "c":
		if _, ok := m.sess.CreateSelectedUnit(m.sess.MouseWorld()); !ok {
			m.status = "scene declined the unit"
		}
	case "+", "=":
		m.view.Zoom(1.2)
	case "-", "_":
		m.view.Zoom(1 / 1.2)
	case "left":
		m.view.Pan(-0.1, 0)
	case "right":
		m.view.Pan(0.1, 0)
	case "up":
		m.view.Pan(0, 0.1)
	case "down":
		m.view.Pan(0, -0.1)
	case "[":
		m.moveParam(-1)
	case "]":
		m.moveParam(1)
	case "enter":
		if len(m.sess.SelectedParams()) > 0 {
			m.editing, m.editBuf = true, ""
		}
	case "?":
		m.showHelp = !m.showHelp
	default:
		// Terminals report no key releases, so the scene sees both at once.
		if r, ok := keyRune(msg); ok {
			m.sess.Keyboard(r)
			m.sess.KeyboardUp(r)
		}
	}
	m.draw()
	return m, nil
}

func (m *Model) editKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter":
		if err := m.sess.SetSelectedParam(m.paramCursor, m.editBuf); err != nil {
			m.status = err.Error()
			m.log.Debug("parameter rejected", zap.Int("index", m.paramCursor), zap.Error(err))
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if r := []rune(m.editBuf); len(r) > 0 {
			m.editBuf = string(r[:len(r)-1])
		}
	default:
		if r, ok := keyRune(msg); ok {
			m.editBuf += string(r)
		}
	}
}

func (m *Model) moveParam(dir int) {
	n := len(m.sess.SelectedParams())
	if n == 0 {
		m.paramCursor = 0
		return
	}
	m.paramCursor = (m.paramCursor + dir + n) % n
}

func (m *Model) cycleUnit() {
	kinds := m.sess.UnitKinds()
	if len(kinds) == 0 {
		return
	}
	next := 0
	for i, k := range kinds {
		if k.ID == m.sess.CreatingUnit() {
			next = (i + 1) % len(kinds)
			break
		}
	}
	id := kinds[next].ID
	if err := m.sess.SetCreatingUnit(id); err != nil {
		m.status = err.Error()
		return
	}
	m.sess.UpdateUnitParam(id)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasLeft, msg.Y-canvasTop
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	p := m.view.ToWorld(col*2+1, row*4+2)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pressed = tea.MouseButtonLeft
			if msg.Shift {
				m.sess.ShiftMouseDown(p)
			} else {
				m.sess.MouseDown(p)
			}
		case tea.MouseButtonRight:
			m.pressed = tea.MouseButtonRight
			m.sess.MouseDownRight(p)
			m.paramCursor = 0
		case tea.MouseButtonWheelUp:
			m.view.Zoom(1.1)
		case tea.MouseButtonWheelDown:
			m.view.Zoom(1 / 1.1)
		}
	case tea.MouseActionRelease:
		// Some terminals do not say which button was released.
		switch m.pressed {
		case tea.MouseButtonLeft:
			m.sess.MouseUp(p)
		case tea.MouseButtonRight:
			m.sess.MouseUpRight(p)
		}
		m.pressed = tea.MouseButtonNone
	case tea.MouseActionMotion:
		m.sess.MouseMove(p)
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	title := m.sess.Title()
	if title == "" {
		title = fmt.Sprintf("session %d", m.sess.ID())
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")

	switch {
	case m.sess.RightPaused():
		s.WriteString(StatusPaused.Render("HELD") + "\n")
	case m.settings.Pause:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	default:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	}

	w := m.sess.World()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sess.StepCount()))
	row("Bodies", fmt.Sprintf("%d", len(w.Bodies())))
	row("Mode", m.sess.Mode().String())
	row("Right click", m.sess.RightMode().String())
	row("Trails", onOff(m.sess.TrailsEnabled()))
	row("Contacts", SparklineChart(m.contactHistory, 24))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.stepHistory) > 1 {
		chart := asciigraph.Plot(m.stepHistory, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("Step ms"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	for _, l := range m.sess.Lines() {
		s.WriteString(lineStyle.Render(l.Text) + "\n")
	}

	s.WriteString("\nUNITS\n")
	for _, k := range m.sess.UnitKinds() {
		line := fmt.Sprintf("%-12s %3d", k.Name, k.Count)
		if k.ID == m.sess.CreatingUnit() {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if body, ok := m.sess.SelectedBody(); ok {
		s.WriteString(fmt.Sprintf("\nBODY %d\n", body))
		params := m.sess.SelectedParams()
		if len(params) == 0 {
			s.WriteString(labelStyle.Render("  (none)") + "\n")
		}
		for i, p := range params {
			value := p.String()
			if m.editing && i == m.paramCursor {
				value = m.editBuf + "_"
			}
			line := fmt.Sprintf("%-10s %s", p.Name, value)
			if i == m.paramCursor {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	}

	if m.status != "" {
		s.WriteString("\n" + StatusPaused.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\nP:Pause N:Step T:Trails ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return mainView + "\n" + helpText
	}
	return mainView
}

const helpText = `
  left drag        pull a body
  shift+left drag  aim and launch a bomb
  right click      select or delete (m cycles the mode)
  p / n            pause / single step
  t / u            trails / unit names
  s / f            stats / profile lines
  tab / c          next unit kind / create it at the cursor
  [ ] enter        pick and edit a selected body's parameter
  arrows + -       pan and zoom
  T                cycle theme
  other keys       passed to the scene
`

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
