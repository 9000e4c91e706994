package viz

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
)

// CellOf returns the terminal cell, relative to the model's view, that
// shows world point p.
func (m Model) CellOf(p physics.Vec2) (int, int) {
	x, y := m.view.ToScreen(p)
	return x/2 + canvasLeft, y/4 + canvasTop
}

// draw repaints the canvas from the session's current state.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.sess.Closed() {
		return
	}
	w := m.sess.World()

	if m.sess.TrailsEnabled() {
		for _, seg := range m.sess.DrawTrails() {
			x0, y0 := m.view.ToScreen(seg.From)
			x1, y1 := m.view.ToScreen(seg.To)
			m.canvas.Line(x0, y0, x1, y1, LayerTrail)
		}
	}

	selected, hasSelected := m.sess.SelectedBody()
	for _, id := range w.Bodies() {
		layer := LayerDynamic
		if bt, _ := w.BodyType(id); bt == physics.StaticBody {
			layer = LayerStatic
		}
		if hasSelected && id == selected {
			layer = LayerSelected
		}
		pos, _ := w.Position(id)
		angle := w.Angle(id)
		for _, sh := range w.Shapes(id) {
			m.drawShape(sh, pos, angle, layer)
		}
	}

	for _, cp := range m.sess.ContactPoints() {
		x, y := m.view.ToScreen(cp.Position)
		m.canvas.Plot(x, y, LayerContact)
		if cp.State == physics.PointAdd {
			m.canvas.Plot(x-1, y, LayerContact)
			m.canvas.Plot(x+1, y, LayerContact)
		}
	}

	if _, ok := m.sess.MouseJoint(); ok {
		x, y := m.view.ToScreen(m.sess.MouseWorld())
		m.cross(x, y)
	}
	if spawn, ok := m.sess.BombSpawnPoint(); ok {
		x0, y0 := m.view.ToScreen(spawn)
		x1, y1 := m.view.ToScreen(m.sess.MouseWorld())
		m.canvas.Line(x0, y0, x1, y1, LayerCursor)
		m.cross(x0, y0)
	}

	for _, l := range m.sess.UnitLabels() {
		x, y := m.view.ToScreen(l.Position)
		m.canvas.Text(x/2+1, y/4-1, l.Name)
	}
}

func (m *Model) cross(x, y int) {
	for d := -2; d <= 2; d++ {
		m.canvas.Plot(x+d, y, LayerCursor)
		m.canvas.Plot(x, y+d, LayerCursor)
	}
}

func rotate(v physics.Vec2, angle float64) physics.Vec2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return physics.V(c*v.X-s*v.Y, s*v.X+c*v.Y)
}

func (m *Model) drawShape(sh physics.Shape, pos physics.Vec2, angle float64, layer Layer) {
	toWorld := func(v physics.Vec2) physics.Vec2 { return pos.Add(rotate(v, angle)) }

	switch sh.Kind {
	case physics.CircleShape:
		cx, cy := m.view.ToScreen(pos)
		r := int(math.Round(sh.Radius * m.view.Scale))
		m.canvas.Circle(cx, cy, r, layer)
		// Radius line so rotation is visible.
		ex, ey := m.view.ToScreen(toWorld(physics.V(sh.Radius, 0)))
		m.canvas.Line(cx, cy, ex, ey, layer)
	case physics.BoxShape:
		corners := [4]physics.Vec2{
			physics.V(-sh.HalfWidth, -sh.HalfHeight),
			physics.V(sh.HalfWidth, -sh.HalfHeight),
			physics.V(sh.HalfWidth, sh.HalfHeight),
			physics.V(-sh.HalfWidth, sh.HalfHeight),
		}
		for i := range corners {
			x0, y0 := m.view.ToScreen(toWorld(corners[i]))
			x1, y1 := m.view.ToScreen(toWorld(corners[(i+1)%4]))
			m.canvas.Line(x0, y0, x1, y1, layer)
		}
	default:
		x0, y0 := m.view.ToScreen(toWorld(sh.V1))
		x1, y1 := m.view.ToScreen(toWorld(sh.V2))
		m.canvas.Line(x0, y0, x1, y1, layer)
	}
}
