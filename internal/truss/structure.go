package truss

import (
	"fmt"
	"math"
)

// Structure is the unit of input to analysis. Grid, when positive, is the
// snapping step used by AddJoint.
type Structure struct {
	Joints []Joint
	Beams  []Beam
	Grid   float64
}

func New(grid float64) *Structure {
	return &Structure{
		Joints: make([]Joint, 0),
		Beams:  make([]Beam, 0),
		Grid:   grid,
	}
}

// Snap rounds p to the nearest grid point. A non-positive grid leaves p as is.
func Snap(p Vec2, grid float64) Vec2 {
	if grid <= 0 {
		return p
	}
	return Vec2{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// ClosestJoint returns the joint nearest to p within maxDist, or -1.
func (s *Structure) ClosestJoint(p Vec2, maxDist float64) int {
	closest := -1
	best := maxDist * maxDist
	for i, j := range s.Joints {
		d := j.Pos.Sub(p)
		if d2 := d.X*d.X + d.Y*d.Y; d2 < best {
			best = d2
			closest = i
		}
	}
	return closest
}

// AddJoint snaps pos to the grid and appends a joint, rejecting positions
// within a third of a grid step of an existing joint.
func (s *Structure) AddJoint(pos Vec2, anchor bool) (int, error) {
	p := Snap(pos, s.Grid)
	minDist := Tolerance
	if s.Grid > 0 {
		minDist = s.Grid / 3
	}
	for _, j := range s.Joints {
		if j.Pos.Sub(p).Norm() < minDist {
			return -1, fmt.Errorf("%w: (%g, %g)", ErrJointExists, p.X, p.Y)
		}
	}
	s.Joints = append(s.Joints, Joint{Pos: p, Anchor: anchor})
	return len(s.Joints) - 1, nil
}

// AddBeam connects j1 and j2 with a beam of DefaultArea.
func (s *Structure) AddBeam(j1, j2 int) (int, error) {
	if !validIndex(j1, s.Joints) || !validIndex(j2, s.Joints) {
		return -1, &BeamError{Beam: len(s.Beams), J1: j1, J2: j2, Wrapped: ErrJointIndex}
	}
	if j1 == j2 {
		return -1, &BeamError{Beam: len(s.Beams), J1: j1, J2: j2, Wrapped: ErrSelfBeam}
	}
	for _, b := range s.Beams {
		if b.Connects(j1, j2) {
			return -1, &BeamError{Beam: len(s.Beams), J1: j1, J2: j2, Wrapped: ErrDuplicateBeam}
		}
	}
	s.Beams = append(s.Beams, NewBeam(j1, j2))
	return len(s.Beams) - 1, nil
}

func (s *Structure) SetArea(beam int, area float64) error {
	if beam < 0 || beam >= len(s.Beams) {
		return fmt.Errorf("beam %d: %w", beam, ErrJointIndex)
	}
	if area <= 0 {
		return ErrInvalidArea
	}
	s.Beams[beam].Area = area
	return nil
}

// ToggleAnchor flips the anchor flag of joint i.
func (s *Structure) ToggleAnchor(i int) error {
	if !validIndex(i, s.Joints) {
		return ErrJointIndex
	}
	s.Joints[i].Anchor = !s.Joints[i].Anchor
	return nil
}

// SetLoad replaces the external load on a free joint.
func (s *Structure) SetLoad(i int, load Vec2) error {
	if !validIndex(i, s.Joints) {
		return ErrJointIndex
	}
	if s.Joints[i].Anchor {
		return ErrAnchorLoad
	}
	s.Joints[i].Load = load
	return nil
}

// AddLoad adds delta to the external load on a free joint.
func (s *Structure) AddLoad(i int, delta Vec2) error {
	if !validIndex(i, s.Joints) {
		return ErrJointIndex
	}
	return s.SetLoad(i, s.Joints[i].Load.Add(delta))
}

func (s *Structure) ClearLoads() {
	for i := range s.Joints {
		s.Joints[i].Load = Vec2{}
	}
}

// RemoveJoint deletes joint i, drops every beam touching it and shifts the
// endpoints of the remaining beams so they keep pointing at the same joints.
func (s *Structure) RemoveJoint(i int) error {
	if !validIndex(i, s.Joints) {
		return ErrJointIndex
	}
	kept := s.Beams[:0]
	for _, b := range s.Beams {
		if b.Touches(i) {
			continue
		}
		if b.J1 > i {
			b.J1--
		}
		if b.J2 > i {
			b.J2--
		}
		kept = append(kept, b)
	}
	s.Beams = kept
	s.Joints = append(s.Joints[:i], s.Joints[i+1:]...)
	return nil
}

// Undo removes the most recent beam, or the most recent joint when there are
// no beams left.
func (s *Structure) Undo() error {
	switch {
	case len(s.Beams) > 0:
		s.Beams = s.Beams[:len(s.Beams)-1]
		return nil
	case len(s.Joints) > 0:
		return s.RemoveJoint(len(s.Joints) - 1)
	default:
		return ErrEmpty
	}
}

func (s *Structure) Reset() {
	s.Joints = s.Joints[:0]
	s.Beams = s.Beams[:0]
}

func (s *Structure) Clone() *Structure {
	c := &Structure{
		Joints: make([]Joint, len(s.Joints)),
		Beams:  make([]Beam, len(s.Beams)),
		Grid:   s.Grid,
	}
	copy(c.Joints, s.Joints)
	copy(c.Beams, s.Beams)
	return c
}

// Anchors returns anchor joint indices in index order.
func (s *Structure) Anchors() []int {
	return AnchorIndices(s.Joints)
}

func AnchorIndices(joints []Joint) []int {
	anchors := make([]int, 0, 2)
	for i, j := range joints {
		if j.Anchor {
			anchors = append(anchors, i)
		}
	}
	return anchors
}

// LoadedJoints counts joints carrying a non-zero load.
func (s *Structure) LoadedJoints() int {
	n := 0
	for _, j := range s.Joints {
		if !j.Load.IsZero(Tolerance) {
			n++
		}
	}
	return n
}

// Validate checks the beam endpoint invariant and rejects duplicate beams.
func (s *Structure) Validate() error {
	for k, b := range s.Beams {
		if !validIndex(b.J1, s.Joints) || !validIndex(b.J2, s.Joints) {
			return &BeamError{Beam: k, J1: b.J1, J2: b.J2, Wrapped: ErrJointIndex}
		}
		if b.J1 == b.J2 {
			return &BeamError{Beam: k, J1: b.J1, J2: b.J2, Wrapped: ErrSelfBeam}
		}
		for _, other := range s.Beams[:k] {
			if other.Connects(b.J1, b.J2) {
				return &BeamError{Beam: k, J1: b.J1, J2: b.J2, Wrapped: ErrDuplicateBeam}
			}
		}
	}
	return nil
}
