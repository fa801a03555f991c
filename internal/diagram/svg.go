package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

func rgb(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// SVG returns a standalone SVG document of s annotated with res. It needs no
// font or raster backend.
func SVG(s *truss.Structure, res solver.Result, width, height int) string {
	minX, minY, maxX, maxY := bounds(s.Joints)
	rangeX, rangeY := maxX-minX, maxY-minY

	// Preserve aspect ratio inside the viewport.
	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	offX := (float64(width) - rangeX*scale) / 2
	offY := (float64(height) - rangeY*scale) / 2
	project := func(p truss.Vec2) (float64, float64) {
		return offX + (p.X-minX)*scale, float64(height) - offY - (p.Y-minY)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	sb.WriteString("<g stroke-linecap=\"round\">\n")
	for k, b := range s.Beams {
		if !b.Valid(s.Joints) {
			continue
		}
		x1, y1 := project(s.Joints[b.J1].Pos)
		x2, y2 := project(s.Joints[b.J2].Pos)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3"/>
`, x1, y1, x2, y2, rgb(beamColor(res, k))))
		if res.Success && k < len(res.Forces) {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%.1f</text>
`, (x1+x2)/2, (y1+y2)/2-4, res.Forces[k]))
		}
	}
	sb.WriteString("</g>\n")

	ls := loadScale(s.Joints, math.Max(rangeX, rangeY))
	for _, j := range s.Joints {
		if ls == 0 || j.Load.IsZero(0) {
			continue
		}
		x1, y1 := project(j.Pos.Add(j.Load.Scale(ls)))
		x2, y2 := project(j.Pos)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2" stroke-dasharray="6,3"/>
`, x1, y1, x2, y2, rgb(loadColor)))
	}

	for i, j := range s.Joints {
		x, y := project(j.Pos)
		fill := rgb(anchorColor)
		if i < len(res.Problematic) && res.Problematic[i] {
			fill = rgb(flagColor)
		}
		if j.Anchor {
			sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, x, y, x-7, y+12, x+7, y+12, fill))
		} else {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, fill))
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="10" fill="#555555">%d</text>
`, x+6, y-6, i))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
