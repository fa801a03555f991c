package config

import "sort"

func anchor(x, y float64) JointSpec { return JointSpec{X: x, Y: y, Anchor: true} }

func free(x, y float64) JointSpec { return JointSpec{X: x, Y: y} }

func loaded(x, y, fx, fy float64) JointSpec {
	return JointSpec{X: x, Y: y, Load: []float64{fx, fy}}
}

func chain(pairs ...[2]int) []BeamSpec {
	out := make([]BeamSpec, len(pairs))
	for i, p := range pairs {
		out[i] = BeamSpec{J1: p[0], J2: p[1]}
	}
	return out
}

var Presets = map[string]*Scenario{
	"triangle": {
		Name:        "triangle",
		Description: "Unloaded three-bar triangle on a pin and roller",
		Joints:      []JointSpec{anchor(0, 0), anchor(4, 0), free(2, 3)},
		Beams:       chain([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}),
	},
	"loaded-triangle": {
		Name:        "loaded-triangle",
		Description: "Triangle with a 100 unit downward load at the apex",
		Joints:      []JointSpec{anchor(0, 0), anchor(4, 0), loaded(2, 3, 0, -100)},
		Beams:       chain([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}),
	},
	"pratt": {
		Name:        "pratt",
		Description: "Four-panel Pratt truss, bottom chord loaded",
		Joints: []JointSpec{
			anchor(0, 0), loaded(4, 0, 0, -100), loaded(8, 0, 0, -100), loaded(12, 0, 0, -100), anchor(16, 0),
			free(4, 4), free(8, 4), free(12, 4),
		},
		Beams: chain(
			[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4},
			[2]int{5, 6}, [2]int{6, 7},
			[2]int{0, 5}, [2]int{7, 4},
			[2]int{1, 5}, [2]int{2, 6}, [2]int{3, 7},
			[2]int{5, 2}, [2]int{7, 2},
		),
	},
	"warren": {
		Name:        "warren",
		Description: "Three-panel Warren truss, top chord loaded",
		Joints: []JointSpec{
			anchor(0, 0), free(4, 0), free(8, 0), anchor(12, 0),
			loaded(2, 3, 0, -50), loaded(6, 3, 0, -50), loaded(10, 3, 0, -50),
		},
		Beams: chain(
			[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3},
			[2]int{4, 5}, [2]int{5, 6},
			[2]int{0, 4}, [2]int{4, 1}, [2]int{1, 5}, [2]int{5, 2}, [2]int{2, 6}, [2]int{6, 3},
		),
	},
	"mechanism": {
		Name:        "mechanism",
		Description: "Square frame without a diagonal",
		Joints:      []JointSpec{anchor(0, 0), anchor(4, 0), free(4, 4), free(0, 4)},
		Beams:       chain([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0}),
	},
	"collinear": {
		Name:        "collinear",
		Description: "Free joint held only by two aligned members",
		Joints:      []JointSpec{anchor(0, 0), free(2, 0), anchor(4, 0)},
		Beams:       chain([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}),
	},
}

// GetPreset returns the named preset, or nil.
func GetPreset(name string) *Scenario {
	sc, ok := Presets[name]
	if !ok {
		return nil
	}
	return sc
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
