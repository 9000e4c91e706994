package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/registry"
	"github.com/san-kum/physbox/internal/session"
)

var (
	pickTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickArrow    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickCategory = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Picker lists the registered sessions and switches to a live Model for the
// one chosen. Esc in the live view returns to the list.
type Picker struct {
	reg      *registry.Registry
	entries  []registry.Entry
	cursor   int
	settings session.Settings
	log      *zap.Logger
	hook     func(*session.Session) StepHook

	live    *Model
	errText string
}

func NewPicker(reg *registry.Registry, settings session.Settings, log *zap.Logger) Picker {
	if log == nil {
		log = zap.NewNop()
	}
	return Picker{reg: reg, entries: reg.Enumerate(), settings: settings, log: log}
}

// WithStepHook installs a hook factory called for every session started
// from the list.
func (p Picker) WithStepHook(h func(*session.Session) StepHook) Picker {
	p.hook = h
	return p
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" && !p.live.editing {
			p.stop()
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	if len(p.entries) == 0 {
		return p, nil
	}
	s, err := p.reg.Create(p.cursor)
	if err != nil {
		p.errText = err.Error()
		p.log.Warn("session create failed", zap.Int("index", p.cursor), zap.Error(err))
		return p, nil
	}
	s.SetLogger(p.log)
	p.errText = ""

	live := NewModel(s, p.settings)
	if p.hook != nil {
		live = live.WithStepHook(p.hook(s))
	}
	p.live = &live
	return p, live.Init()
}

func (p *Picker) stop() {
	if p.live == nil {
		return
	}
	p.live.Session().Close()
	p.live = nil
}

// Live returns the running live view, if a session is open.
func (p Picker) Live() (Model, bool) {
	if p.live == nil {
		return Model{}, false
	}
	return *p.live, true
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("PHYSBOX") + "\n    " + pickSub.Render("rigid-body sandbox") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, e := range p.entries {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickArrow.Render("▸"), pickActive.Render(fmt.Sprintf("%-16s", e.Name)), pickCategory.Render(e.Category)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", pickIdle.Render(fmt.Sprintf("%-16s", e.Name)), pickIdle.Render(e.Category)))
		}
	}
	if p.errText != "" {
		b.WriteString("\n    " + StatusPaused.Render(p.errText) + "\n")
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickIdle.Render(" navigate  ") + pickKey.Render("enter") + pickIdle.Render(" start  ") + pickKey.Render("esc") + pickIdle.Render(" back  ") + pickKey.Render("q") + pickIdle.Render(" quit") + "\n")
	return b.String()
}

func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// Run shows one session live until the user quits. The session stays open.
func Run(m Model) error {
	final, err := tea.NewProgram(m, programOptions()...).Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}

// RunPicker shows the session list. A session still open on exit is closed.
func RunPicker(p Picker) error {
	final, err := tea.NewProgram(p, programOptions()...).Run()
	if err != nil {
		return err
	}
	fp := final.(Picker)
	if live, ok := fp.Live(); ok {
		defer live.Session().Close()
		return live.Err()
	}
	return nil
}
