package diagram

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

// Plot builds the diagram of s annotated with res.
func Plot(title string, s *truss.Structure, res solver.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	maxForce := 0.0
	for _, f := range res.Forces {
		maxForce = math.Max(maxForce, math.Abs(f))
	}

	for k, b := range s.Beams {
		if !b.Valid(s.Joints) {
			continue
		}
		a, c := s.Joints[b.J1].Pos, s.Joints[b.J2].Pos
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: c.X, Y: c.Y}})
		if err != nil {
			return nil, err
		}
		width := 1.5
		if res.Success && maxForce > 0 && k < len(res.Forces) {
			width += 3 * math.Abs(res.Forces[k]) / maxForce
		}
		line.LineStyle.Width = vg.Points(width)
		line.LineStyle.Color = beamColor(res, k)
		p.Add(line)

		if res.Success && k < len(res.Forces) {
			lbl, err := plotter.NewLabels(plotter.XYLabels{
				XYs:    []plotter.XY{{X: (a.X + c.X) / 2, Y: (a.Y + c.Y) / 2}},
				Labels: []string{fmt.Sprintf("%.1f", res.Forces[k])},
			})
			if err != nil {
				return nil, err
			}
			p.Add(lbl)
		}
	}

	minX, minY, maxX, maxY := bounds(s.Joints)
	scale := loadScale(s.Joints, math.Max(maxX-minX, maxY-minY))
	for _, j := range s.Joints {
		if scale == 0 || j.Load.IsZero(0) {
			continue
		}
		tip := j.Pos.Add(j.Load.Scale(scale))
		arrow, err := plotter.NewLine(plotter.XYs{{X: tip.X, Y: tip.Y}, {X: j.Pos.X, Y: j.Pos.Y}})
		if err != nil {
			return nil, err
		}
		arrow.LineStyle.Width = vg.Points(1.5)
		arrow.LineStyle.Color = loadColor
		arrow.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(arrow)
	}

	var anchors, free, flagged plotter.XYs
	for i, j := range s.Joints {
		pt := plotter.XY{X: j.Pos.X, Y: j.Pos.Y}
		switch {
		case i < len(res.Problematic) && res.Problematic[i]:
			flagged = append(flagged, pt)
		case j.Anchor:
			anchors = append(anchors, pt)
		default:
			free = append(free, pt)
		}
	}
	glyphs := []struct {
		pts   plotter.XYs
		shape draw.GlyphDrawer
		style func(*plotter.Scatter)
	}{
		{anchors, draw.TriangleGlyph{}, func(sc *plotter.Scatter) { sc.GlyphStyle.Color = anchorColor; sc.GlyphStyle.Radius = vg.Points(6) }},
		{free, draw.CircleGlyph{}, func(sc *plotter.Scatter) { sc.GlyphStyle.Color = anchorColor; sc.GlyphStyle.Radius = vg.Points(4) }},
		{flagged, draw.RingGlyph{}, func(sc *plotter.Scatter) { sc.GlyphStyle.Color = flagColor; sc.GlyphStyle.Radius = vg.Points(7) }},
	}
	for _, g := range glyphs {
		if len(g.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(g.pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = g.shape
		g.style(sc)
		p.Add(sc)
	}

	p.X.Min, p.X.Max = minX, maxX
	p.Y.Min, p.Y.Max = minY, maxY
	return p, nil
}

// WriteImage renders the diagram in format ("png", "svg", "pdf") to w.
func WriteImage(w io.Writer, format, title string, s *truss.Structure, res solver.Result) error {
	p, err := Plot(title, s, res)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Export writes the diagram to filename, picking the format from its
// extension and defaulting to PNG.
func Export(filename, title string, s *truss.Structure, res solver.Result) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch format {
	case "png", "svg", "pdf", "jpg", "jpeg":
	default:
		format = "png"
		filename += ".png"
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteImage(f, format, title, s, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
