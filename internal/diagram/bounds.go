package diagram

import (
	"image/color"
	"math"

	"github.com/san-kum/trussim/internal/metrics"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

var (
	tensionColor     = color.RGBA{R: 30, G: 100, B: 220, A: 255}
	compressionColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	zeroColor        = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	anchorColor      = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	flagColor        = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	loadColor        = color.RGBA{R: 0, G: 150, B: 80, A: 255}
)

func beamColor(res solver.Result, k int) color.RGBA {
	if !res.Success || k >= len(res.Forces) {
		return zeroColor
	}
	switch metrics.ForceKind(res.Forces[k]) {
	case "Tension":
		return tensionColor
	case "Compression":
		return compressionColor
	default:
		return zeroColor
	}
}

// bounds returns the joint bounding box padded by 10% of its span, with a
// unit span substituted for degenerate axes.
func bounds(joints []truss.Joint) (minX, minY, maxX, maxY float64) {
	if len(joints) == 0 {
		return 0, 0, 1, 1
	}
	minX, maxX = joints[0].Pos.X, joints[0].Pos.X
	minY, maxY = joints[0].Pos.Y, joints[0].Pos.Y
	for _, j := range joints {
		minX = math.Min(minX, j.Pos.X)
		maxX = math.Max(maxX, j.Pos.X)
		minY = math.Min(minY, j.Pos.Y)
		maxY = math.Max(maxY, j.Pos.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, minY - rangeY*0.1, maxX + rangeX*0.1, maxY + rangeY*0.1
}

// loadScale maps the largest load to a fifth of the larger drawing span.
func loadScale(joints []truss.Joint, span float64) float64 {
	largest := 0.0
	for _, j := range joints {
		largest = math.Max(largest, j.Load.Norm())
	}
	if largest == 0 {
		return 0
	}
	return span / 5 / largest
}
