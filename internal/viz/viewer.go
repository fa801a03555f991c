package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trussim/internal/metrics"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

type selection int

const (
	selectJoints selection = iota
	selectBeams
)

// Model is the Bubble Tea model of the viewer. It owns its structure and
// applies every analysis back onto it.
type Model struct {
	name          string
	s             *truss.Structure
	res           solver.Result
	mode          selection
	cursor        int
	status        string
	theme         Theme
	st            styles
	width, height int
}

func NewModel(name string, s *truss.Structure, theme Theme) Model {
	m := Model{
		name:   name,
		s:      s,
		theme:  theme,
		st:     newStyles(theme),
		width:  80,
		height: 24,
	}
	m.recompute()
	return m
}

func (m *Model) recompute() {
	m.res = solver.ComputeEquilibrium(m.s)
}

func (m Model) Structure() *truss.Structure { return m.s }

func (m Model) Result() solver.Result { return m.res }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) count() int {
	if m.mode == selectBeams {
		return len(m.s.Beams)
	}
	return len(m.s.Joints)
}

func (m *Model) clampCursor() {
	if n := m.count(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	var err error
	edited := false

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.mode = 1 - m.mode
		m.cursor = 0
	case "down", "j":
		if m.cursor < m.count()-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "w", "a", "s", "d":
		if m.mode != selectJoints || m.count() == 0 {
			break
		}
		delta := map[string]truss.Vec2{
			"w": {Y: truss.LoadStep},
			"s": {Y: -truss.LoadStep},
			"a": {X: -truss.LoadStep},
			"d": {X: truss.LoadStep},
		}[msg.String()]
		err = m.s.AddLoad(m.cursor, delta)
		edited = err == nil
	case "x":
		m.s.ClearLoads()
		edited = true
	case " ", "enter":
		if m.mode == selectJoints && m.count() > 0 {
			err = m.s.ToggleAnchor(m.cursor)
			edited = err == nil
		}
	case "+", "=", "-":
		if m.mode != selectBeams || m.count() == 0 {
			break
		}
		factor := 2.0
		if msg.String() == "-" {
			factor = 0.5
		}
		err = m.s.SetArea(m.cursor, m.s.Beams[m.cursor].Area*factor)
		edited = err == nil
	case "u":
		err = m.s.Undo()
		edited = err == nil
	case "T":
		m.theme = nextTheme(m.theme)
		m.st = newStyles(m.theme)
		m.status = "theme: " + m.theme.Name
	}

	switch {
	case errors.Is(err, truss.ErrAnchorLoad):
		m.status = "anchors carry reactions, not loads"
	case errors.Is(err, truss.ErrEmpty):
		m.status = "nothing to undo"
	case err != nil:
		m.status = err.Error()
	}
	if edited {
		m.clampCursor()
		m.recompute()
	}
	return m, nil
}

// viewport maps structure coordinates onto canvas sub-pixels, y up.
type viewport struct {
	minX, minY, scale float64
	offX, offY        float64
	h                 int
}

func fit(joints []truss.Joint, w, h int) viewport {
	if len(joints) == 0 {
		return viewport{scale: 1, h: h}
	}
	minX, maxX := joints[0].Pos.X, joints[0].Pos.X
	minY, maxY := joints[0].Pos.Y, joints[0].Pos.Y
	for _, j := range joints {
		minX, maxX = math.Min(minX, j.Pos.X), math.Max(maxX, j.Pos.X)
		minY, maxY = math.Min(minY, j.Pos.Y), math.Max(maxY, j.Pos.Y)
	}
	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}

	const margin = 6
	// Braille sub-pixels are roughly twice as tall as wide on screen.
	sx := float64(w-2*margin) / rx
	sy := float64(h-2*margin) / ry * 2
	scale := math.Max(math.Min(sx, sy), 0)
	return viewport{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  (float64(w) - rx*scale) / 2,
		offY:  (float64(h) - ry*scale/2) / 2,
		h:     h,
	}
}

func (v viewport) project(p truss.Vec2) (int, int) {
	x := v.offX + (p.X-v.minX)*v.scale
	y := float64(v.h) - v.offY - (p.Y-v.minY)*v.scale/2
	return int(math.Round(x)), int(math.Round(y))
}

func beamPen(res solver.Result, k int) Pen {
	if !res.Success || k >= len(res.Forces) {
		return PenZero
	}
	switch metrics.ForceKind(res.Forces[k]) {
	case "Tension":
		return PenTension
	case "Compression":
		return PenCompression
	}
	return PenZero
}

// draw renders the structure onto a fresh canvas of the given cell size.
func (m Model) draw(cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	vp := fit(m.s.Joints, cols*2, rows*4)

	for k, b := range m.s.Beams {
		if !b.Valid(m.s.Joints) {
			continue
		}
		x0, y0 := vp.project(m.s.Joints[b.J1].Pos)
		x1, y1 := vp.project(m.s.Joints[b.J2].Pos)
		c.SetPen(beamPen(m.res, k))
		if m.mode == selectBeams && k == m.cursor {
			c.SetPen(PenSelect)
		}
		c.DrawLine(x0, y0, x1, y1)
	}

	for i, j := range m.s.Joints {
		x, y := vp.project(j.Pos)
		if !j.Load.IsZero(0) {
			c.SetPen(PenLoad)
			dir := j.Load.Scale(6 / j.Load.Norm())
			c.DrawLine(x-int(dir.X), y+int(dir.Y), x, y)
		}
		switch {
		case j.Problematic:
			c.SetPen(PenFlag)
		case j.Anchor:
			c.SetPen(PenAnchor)
		default:
			c.SetPen(PenJoint)
		}
		if j.Anchor {
			c.DrawSupport(x, y, 3)
		} else {
			c.DrawBox(x, y, 1)
		}
		if m.mode == selectJoints && i == m.cursor {
			c.SetPen(PenSelect)
			c.DrawBox(x, y, 3)
		}
	}
	return c
}

func (m Model) View() string {
	var b strings.Builder
	st := m.st

	b.WriteString("\n  " + st.title.Render("TRUSSIM") + "  " + st.muted.Render(m.name) + "\n")
	b.WriteString("  " + separator(st, m.width-4) + "\n")

	cols, rows := m.width-4, m.height-12
	if cols < 20 {
		cols = 20
	}
	if rows < 6 {
		rows = 6
	}
	b.WriteString(m.draw(cols, rows).Render(st.pens))

	status := st.ok.Render("✓ " + m.res.Reason)
	if !m.res.Success {
		status = st.fail.Render("✗ " + m.res.Reason)
	}
	b.WriteString("  " + status + "\n")
	b.WriteString("  " + m.selectionInfo() + "\n")
	if m.status != "" {
		b.WriteString("  " + st.muted.Render(m.status) + "\n")
	}
	b.WriteString("\n  " + st.hints("tab", "joints/beams", "j/k", "select", "wasd", "load", "space", "anchor", "+/-", "area", "u", "undo", "T", "theme", "q", "quit") + "\n")
	return b.String()
}

func (m Model) selectionInfo() string {
	st := m.st
	if m.count() == 0 {
		return st.muted.Render("no elements")
	}
	if m.mode == selectBeams {
		bm := m.s.Beams[m.cursor]
		return st.sel.Render(fmt.Sprintf("beam %d", m.cursor)) + st.text.Render(fmt.Sprintf(
			"  %d-%d  area %.4f  force %.3f  stress %.3f  %s",
			bm.J1, bm.J2, bm.Area, bm.Force, bm.Stress, metrics.ForceKind(bm.Force)))
	}

	j := m.s.Joints[m.cursor]
	info := fmt.Sprintf("  (%.2f, %.2f)  load (%.0f, %.0f)", j.Pos.X, j.Pos.Y, j.Load.X, j.Load.Y)
	if r, ok := m.res.Reactions[m.cursor]; ok {
		info += fmt.Sprintf("  reaction (%.3f, %.3f)", r.X, r.Y)
	}
	if j.Anchor {
		info += "  anchor"
	}
	return st.sel.Render(fmt.Sprintf("joint %d", m.cursor)) + st.text.Render(info)
}

// Run opens the viewer on s in the alternate screen until the user quits.
func Run(name string, s *truss.Structure, theme string) error {
	_, err := tea.NewProgram(NewModel(name, s, GetTheme(theme)), tea.WithAltScreen()).Run()
	return err
}
