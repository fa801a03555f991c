package metrics

import (
	"math"

	"github.com/san-kum/trussim/internal/truss"
)

type MaxTension struct {
	name string
	peak BeamValue
}

func NewMaxTension() *MaxTension {
	return &MaxTension{name: "max_tension", peak: BeamValue{Beam: -1}}
}

func (m *MaxTension) Name() string { return m.name }

func (m *MaxTension) Observe(k int, b truss.Beam) {
	if b.Force > truss.Tolerance && (m.peak.Beam < 0 || b.Force > m.peak.Value) {
		m.peak = BeamValue{Beam: k, Value: b.Force}
	}
}

func (m *MaxTension) Value() float64 { return m.peak.Value }

func (m *MaxTension) BeamValue() BeamValue { return m.peak }

func (m *MaxTension) Reset() { m.peak = BeamValue{Beam: -1} }

// MaxCompression tracks the most negative force. Value is negative.
type MaxCompression struct {
	name string
	peak BeamValue
}

func NewMaxCompression() *MaxCompression {
	return &MaxCompression{name: "max_compression", peak: BeamValue{Beam: -1}}
}

func (m *MaxCompression) Name() string { return m.name }

func (m *MaxCompression) Observe(k int, b truss.Beam) {
	if b.Force < -truss.Tolerance && (m.peak.Beam < 0 || b.Force < m.peak.Value) {
		m.peak = BeamValue{Beam: k, Value: b.Force}
	}
}

func (m *MaxCompression) Value() float64 { return m.peak.Value }

func (m *MaxCompression) BeamValue() BeamValue { return m.peak }

func (m *MaxCompression) Reset() { m.peak = BeamValue{Beam: -1} }

// MaxStress tracks the largest |stress|, keeping its sign in the reported
// value.
type MaxStress struct {
	name string
	peak BeamValue
}

func NewMaxStress() *MaxStress {
	return &MaxStress{name: "max_stress", peak: BeamValue{Beam: -1}}
}

func (m *MaxStress) Name() string { return m.name }

func (m *MaxStress) Observe(k int, b truss.Beam) {
	if math.Abs(b.Stress) <= truss.Tolerance {
		return
	}
	if m.peak.Beam < 0 || math.Abs(b.Stress) > math.Abs(m.peak.Value) {
		m.peak = BeamValue{Beam: k, Value: b.Stress}
	}
}

func (m *MaxStress) Value() float64 { return m.peak.Value }

func (m *MaxStress) BeamValue() BeamValue { return m.peak }

func (m *MaxStress) Reset() { m.peak = BeamValue{Beam: -1} }
