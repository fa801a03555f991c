// Package metrics summarizes a solved truss: peak member forces and stresses,
// zero-force members and the global equilibrium residual.
package metrics

import (
	"math"

	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

// Metric accumulates one scalar over the beams of a solved structure.
type Metric interface {
	Name() string
	Observe(k int, b truss.Beam)
	Value() float64
	Reset()
}

// BeamValue is a value attributed to a beam. Beam is -1 when no beam
// qualified.
type BeamValue struct {
	Beam  int
	Value float64
}

type Summary struct {
	MaxTension     BeamValue
	MaxCompression BeamValue
	MaxStress      BeamValue
	ZeroForce      int

	// Residual is the sum of applied loads and support reactions. It is
	// only meaningful for a successful result.
	Residual truss.Vec2

	Metrics map[string]float64
}

// Default returns the metric set observed by Summarize.
func Default() []Metric {
	return []Metric{
		NewMaxTension(),
		NewMaxCompression(),
		NewMaxStress(),
		NewZeroForce(truss.Tolerance),
	}
}

// Summarize observes every beam of s with the forces and stresses in res.
func Summarize(s *truss.Structure, res solver.Result) Summary {
	sum := Summary{
		MaxTension:     BeamValue{Beam: -1},
		MaxCompression: BeamValue{Beam: -1},
		MaxStress:      BeamValue{Beam: -1},
		Metrics:        make(map[string]float64),
	}

	ms := Default()
	for _, m := range ms {
		m.Reset()
	}

	for k, b := range s.Beams {
		if k < len(res.Forces) {
			b.Force, b.Stress = res.Forces[k], res.Stresses[k]
		}
		for _, m := range ms {
			m.Observe(k, b)
		}
	}

	for _, m := range ms {
		sum.Metrics[m.Name()] = m.Value()
		switch v := m.(type) {
		case *MaxTension:
			sum.MaxTension = v.BeamValue()
		case *MaxCompression:
			sum.MaxCompression = v.BeamValue()
		case *MaxStress:
			sum.MaxStress = v.BeamValue()
		case *ZeroForce:
			sum.ZeroForce = v.Count()
		}
	}

	sum.Residual = Residual(s, res)
	return sum
}

// Residual returns ΣF over all joint loads and the reactions in res.
func Residual(s *truss.Structure, res solver.Result) truss.Vec2 {
	var r truss.Vec2
	for _, j := range s.Joints {
		r = r.Add(j.Load)
	}
	for _, reaction := range res.Reactions {
		r = r.Add(reaction)
	}
	return r
}

// ForceKind names the sense of an axial force.
func ForceKind(f float64) string {
	switch {
	case math.Abs(f) <= truss.Tolerance:
		return "Zero Force"
	case f > 0:
		return "Tension"
	default:
		return "Compression"
	}
}
