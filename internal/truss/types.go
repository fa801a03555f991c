package truss

import "math"

const (
	// Tolerance is the single absolute tolerance used for every geometric and
	// numeric comparison in the analysis: zero-length beams, collinear
	// members, coincident anchors. Residual checks use 100*Tolerance.
	Tolerance = 1e-6

	// DefaultArea is the cross-sectional area given to new beams.
	DefaultArea = 0.01

	// DefaultGrid is the snapping step for structures drawn in screen units.
	DefaultGrid = 50.0

	// LoadStep is the increment applied by one load nudge.
	LoadStep = 100.0
)

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are within tol of zero.
func (v Vec2) IsZero(tol float64) bool {
	return math.Abs(v.X) <= tol && math.Abs(v.Y) <= tol
}

// Joint is a pin connection. Problematic is a diagnostic written back by the
// last applied analysis, not a structural property.
type Joint struct {
	Pos         Vec2
	Anchor      bool
	Load        Vec2
	Problematic bool
}

// Beam is an axial-only member between joints J1 and J2. Force and Stress are
// analysis outputs: positive force is tension, negative is compression.
type Beam struct {
	J1, J2 int
	Area   float64
	Force  float64
	Stress float64
}

func NewBeam(j1, j2 int) Beam {
	return Beam{J1: j1, J2: j2, Area: DefaultArea}
}

func validIndex(i int, joints []Joint) bool {
	return i >= 0 && i < len(joints)
}

// Valid reports whether both endpoints index into joints and differ.
func (b Beam) Valid(joints []Joint) bool {
	return validIndex(b.J1, joints) && validIndex(b.J2, joints) && b.J1 != b.J2
}

// Length returns the distance between the endpoints, or 0 when an endpoint
// index is out of range.
func (b Beam) Length(joints []Joint) float64 {
	if !validIndex(b.J1, joints) || !validIndex(b.J2, joints) {
		return 0
	}
	return joints[b.J2].Pos.Sub(joints[b.J1].Pos).Norm()
}

// AngleFrom returns the direction of the beam as seen from joint i, that is
// atan2 of the vector from i to the other endpoint.
func (b Beam) AngleFrom(i int, joints []Joint) (float64, bool) {
	if !validIndex(b.J1, joints) || !validIndex(b.J2, joints) {
		return 0, false
	}
	var from, to Vec2
	switch i {
	case b.J1:
		from, to = joints[b.J1].Pos, joints[b.J2].Pos
	case b.J2:
		from, to = joints[b.J2].Pos, joints[b.J1].Pos
	default:
		return 0, false
	}
	d := to.Sub(from)
	return math.Atan2(d.Y, d.X), true
}

// Touches reports whether joint i is an endpoint of the beam.
func (b Beam) Touches(i int) bool {
	return b.J1 == i || b.J2 == i
}

// Connects reports whether the beam joins i and j in either orientation.
func (b Beam) Connects(i, j int) bool {
	return (b.J1 == i && b.J2 == j) || (b.J1 == j && b.J2 == i)
}
