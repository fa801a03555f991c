package report

import (
	"github.com/guptarohit/asciigraph"
)

// ForceChart plots member force against beam index. It returns "" when
// there are no beams.
func ForceChart(r *Report, width, height int) string {
	data := r.Result.Forces
	switch len(data) {
	case 0:
		return ""
	case 1:
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("member force by beam index (+tension / -compression)"),
	)
}
