// Package script replays recorded input events against a session.
//
// A script is a YAML document listing events keyed by the step before which
// they fire:
//
//	name: drag-and-bomb
//	session: basic/bombard
//	steps: 240
//	events:
//	  - {at: 10, action: mouse_down, x: 0, y: 5}
//	  - {at: 40, action: mouse_up, x: 3, y: 8}
//	  - {at: 60, action: launch_bomb}
package script

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

var (
	ErrUnknownAction = errors.New("script: unknown action")
	ErrInvalidEvent  = errors.New("script: invalid event")
)

// Actions understood by Apply.
const (
	MouseDown      = "mouse_down"
	MouseMove      = "mouse_move"
	MouseUp        = "mouse_up"
	ShiftMouseDown = "shift_mouse_down"
	RightDown      = "right_down"
	RightUp        = "right_up"
	LaunchBomb     = "launch_bomb"
	LaunchBombAt   = "launch_bomb_at"
	KeyDown        = "key_down"
	KeyUp          = "key_up"
	CreateUnit     = "create_unit"
	SetRightMode   = "right_mode"
	Trails         = "trails"
	Pause          = "pause"
	Resume         = "resume"
	SingleStep     = "single_step"
	ShiftOrigin    = "shift_origin"
)

type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Session     string  `yaml:"session"`
	Steps       int     `yaml:"steps"`
	Events      []Event `yaml:"events"`
}

// Event is one input applied before step At.
type Event struct {
	At     int     `yaml:"at"`
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	VX     float64 `yaml:"vx,omitempty"`
	VY     float64 `yaml:"vy,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Unit   int     `yaml:"unit,omitempty"`
	Mode   string  `yaml:"mode,omitempty"`
	On     bool    `yaml:"on,omitempty"`
}

func (e Event) Point() physics.Vec2 { return physics.V(e.X, e.Y) }

// keyRune returns the single character of a key event.
func (e Event) keyRune() (rune, error) {
	r := []rune(e.Key)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: key must be one character, got %q", ErrInvalidEvent, e.Key)
	}
	return r[0], nil
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks every event and orders them by step.
func (sc *Script) Validate() error {
	for i, e := range sc.Events {
		if e.At < 0 {
			return fmt.Errorf("%w: event %d fires at negative step %d", ErrInvalidEvent, i+1, e.At)
		}
		if !knownAction(e.Action) {
			return fmt.Errorf("%w: event %d: %q", ErrUnknownAction, i+1, e.Action)
		}
		if e.Action == KeyDown || e.Action == KeyUp {
			if _, err := e.keyRune(); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		}
		if e.Action == SetRightMode {
			if _, err := session.ParseRightMode(e.Mode); err != nil {
				return fmt.Errorf("%w: event %d: %v", ErrInvalidEvent, i+1, err)
			}
		}
	}
	sort.SliceStable(sc.Events, func(i, j int) bool { return sc.Events[i].At < sc.Events[j].At })

	if last := len(sc.Events); last > 0 && sc.Steps <= sc.Events[last-1].At {
		sc.Steps = sc.Events[last-1].At + 1
	}
	return nil
}

// SessionName splits "category/name". A bare name has an empty category.
func (sc *Script) SessionName() (category, name string) {
	if i := strings.LastIndex(sc.Session, "/"); i >= 0 {
		return sc.Session[:i], sc.Session[i+1:]
	}
	return "", sc.Session
}

func knownAction(a string) bool {
	switch a {
	case MouseDown, MouseMove, MouseUp, ShiftMouseDown, RightDown, RightUp,
		LaunchBomb, LaunchBombAt, KeyDown, KeyUp, CreateUnit, SetRightMode,
		Trails, Pause, Resume, SingleStep, ShiftOrigin:
		return true
	}
	return false
}

// Apply feeds one event into s. Pause-related events edit settings.
func Apply(s *session.Session, settings *session.Settings, e Event) error {
	p := e.Point()
	switch e.Action {
	case MouseDown:
		s.MouseDown(p)
	case MouseMove:
		s.MouseMove(p)
	case MouseUp:
		s.MouseUp(p)
	case ShiftMouseDown:
		s.ShiftMouseDown(p)
	case RightDown:
		s.MouseDownRight(p)
	case RightUp:
		s.MouseUpRight(p)
	case LaunchBomb:
		s.LaunchBomb()
	case LaunchBombAt:
		s.LaunchBombAt(p, physics.V(e.VX, e.VY))
	case KeyDown, KeyUp:
		key, err := e.keyRune()
		if err != nil {
			return err
		}
		if e.Action == KeyDown {
			s.Keyboard(key)
		} else {
			s.KeyboardUp(key)
		}
	case CreateUnit:
		if err := s.SetCreatingUnit(e.Unit); err != nil {
			return err
		}
		s.CreateSelectedUnit(p)
	case SetRightMode:
		mode, err := session.ParseRightMode(e.Mode)
		if err != nil {
			return err
		}
		s.SetRightMode(mode)
	case Trails:
		s.SetTrailsEnabled(e.On)
	case Pause:
		settings.Pause = true
	case Resume:
		settings.Pause = false
	case SingleStep:
		settings.SingleStep = true
	case ShiftOrigin:
		s.ShiftOrigin(p)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, e.Action)
	}
	return nil
}
